package demo

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/movement"
	"github.com/sirupsen/logrus"
)

// Advancer is a world that moves on its own between ticks. Worlds recorded with moving
// platforms must be advanced the same way on replay.
type Advancer interface {
	Advance(dt float32)
}

// DivergenceError is returned by Replay for the first frame that does not reproduce.
type DivergenceError struct {
	Frame   int
	Command uint64
	Reason  string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("demo diverged at frame %d (command %d): %s", e.Frame, e.Command, e.Reason)
}

// Summary describes a replay that reproduced every frame.
type Summary struct {
	Frames int
	Events int
	Final  movement.State
}

// Replay re-simulates a demo using the collision world of sim and the settings stored in the
// demo. It fails with a *DivergenceError on the first frame whose state or events differ from
// what was recorded.
func Replay(src io.Reader, sim movement.Simulator, log *logrus.Logger) (Summary, error) {
	var sum Summary
	r, err := NewReader(src)
	if err != nil {
		return sum, err
	}
	st, err := r.Initial()
	if err != nil {
		return sum, err
	}

	sim.Settings = r.Header.Settings
	if sim.Rules, err = movement.RulesFor(r.Header.Settings.Rules); err != nil {
		return sum, err
	}
	rec := &event.Recorder{}
	if sim.Effects != nil {
		sim.Effects = event.Multi{sim.Effects, rec}
	} else {
		sim.Effects = rec
	}
	adv, _ := sim.World.(Advancer)

	if log != nil {
		log.Infof("replaying demo recorded on %q (rules=%s)", r.Header.Map, r.Header.Settings.Rules)
	}
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return sum, err
		}

		rec.Reset()
		if adv != nil {
			adv.Advance(f.Command.FrameTime)
		}
		sim.Simulate(&st, f.Command)

		if got := movement.Checksum(st); got != f.Checksum {
			return sum, &DivergenceError{Frame: sum.Frames, Command: f.Command.Number, Reason: fmt.Sprintf("checksum %x, recorded %x", got, f.Checksum)}
		}
		if reason := compareEvents(rec.Events, f.Events); reason != "" {
			return sum, &DivergenceError{Frame: sum.Frames, Command: f.Command.Number, Reason: reason}
		}
		sum.Frames++
		sum.Events += len(f.Events)
	}
	sum.Final = st
	return sum, nil
}

func compareEvents(got []event.Event, recorded [][]byte) string {
	if len(got) != len(recorded) {
		return fmt.Sprintf("%d events, recorded %d", len(got), len(recorded))
	}
	for i, ev := range got {
		dat, err := event.Encode(ev)
		if err != nil {
			return err.Error()
		}
		if !bytes.Equal(dat, recorded[i]) {
			return fmt.Sprintf("event %d (id %d) differs from the recording", i, ev.ID())
		}
	}
	return ""
}
