package prediction

import (
	"fmt"
	"io"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/utils"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultHistory is how many unacknowledged commands are kept, a little over two seconds
	// at 66 ticks per second.
	DefaultHistory = 150

	DefaultPositionTolerance = float32(0.03125)
	DefaultVelocityTolerance = float32(0.5)
)

// frame is a predicted command together with the state it produced.
type frame struct {
	cmd      movement.Command
	state    movement.State
	checksum uint64
}

// Predictor runs commands locally ahead of the authoritative simulation and corrects itself
// when the authority disagrees.
type Predictor struct {
	sim *movement.Simulator
	log *logrus.Logger

	state   movement.State
	pending *utils.CircularQueue[frame]

	PositionTolerance float32
	VelocityTolerance float32
}

// NewPredictor returns a predictor starting from st. A history of zero or less uses
// DefaultHistory.
func NewPredictor(sim *movement.Simulator, st movement.State, history int, log *logrus.Logger) *Predictor {
	if history <= 0 {
		history = DefaultHistory
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Predictor{
		sim:               sim,
		log:               log,
		state:             st,
		pending:           utils.NewCircularQueue[frame](history),
		PositionTolerance: DefaultPositionTolerance,
		VelocityTolerance: DefaultVelocityTolerance,
	}
}

// State returns the current predicted state.
func (p *Predictor) State() movement.State {
	return p.state
}

// Pending returns the number of commands not yet acknowledged.
func (p *Predictor) Pending() int {
	return p.pending.Len()
}

// Predict simulates cmd on the predicted state and keeps it until the authority acknowledges it.
func (p *Predictor) Predict(cmd movement.Command) movement.Result {
	if last, ok := p.latest(); ok && cmd.Number <= last.cmd.Number {
		p.log.Warnf("predicting command %d out of order (last=%d)", cmd.Number, last.cmd.Number)
	}
	if p.pending.Full() {
		oldest, _ := p.pending.Peek()
		p.log.Warnf("prediction history full, forgetting command %d", oldest.cmd.Number)
	}

	res := p.sim.Simulate(&p.state, cmd)
	_ = p.pending.Append(frame{cmd: cmd, state: p.state, checksum: movement.Checksum(p.state)})
	return res
}

// Report describes the outcome of one reconciliation.
type Report struct {
	Ack uint64
	// Corrected is set when the predicted state was thrown away for the authoritative one.
	Corrected bool
	// Replayed is the number of pending commands simulated again after a correction.
	Replayed int
	// Errors holds how far off the prediction was, in a fixed order.
	Errors *orderedmap.OrderedMap[string, any]
}

func (r Report) String() string {
	s := fmt.Sprintf("ack=%d corrected=%t replayed=%d [", r.Ack, r.Corrected, r.Replayed)
	if r.Errors != nil {
		for i, key := range r.Errors.Keys() {
			if i > 0 {
				s += " "
			}
			v, _ := r.Errors.Get(key)
			s += fmt.Sprintf("%s=%v", key, v)
		}
	}
	return s + "]"
}

// Reconcile applies the authoritative state for command ack. Acknowledged commands are dropped,
// and if the prediction for ack was off, the predictor rewinds to the authoritative state and
// replays every command still pending.
func (p *Predictor) Reconcile(ack uint64, authoritative movement.State) (Report, error) {
	rep := Report{Ack: ack, Errors: orderedmap.NewOrderedMap[string, any]()}

	var (
		predicted frame
		found     bool
	)
	for {
		f, ok := p.pending.Peek()
		if !ok || f.cmd.Number > ack {
			break
		}
		p.pending.Pop()
		if f.cmd.Number == ack {
			predicted, found = f, true
		}
	}

	if !found {
		if p.pending.Len() != 0 {
			first, _ := p.pending.Peek()
			if ack < first.cmd.Number {
				return rep, oerror.New("stale acknowledgement %d (oldest pending is %d)", ack, first.cmd.Number)
			}
		}
		// Nothing to compare against: take the authority's word for it.
		rep.Errors.Set("missing", true)
		p.correct(&rep, authoritative)
		return rep, nil
	}

	if predicted.checksum == movement.Checksum(authoritative) {
		return rep, nil
	}

	posErr := predicted.state.Origin.Sub(authoritative.Origin).Len()
	velErr := predicted.state.Velocity.Sub(authoritative.Velocity).Len()
	rep.Errors.Set("position", game.Round32(posErr, 3))
	rep.Errors.Set("velocity", game.Round32(velErr, 3))
	if predicted.state.Ground != authoritative.Ground {
		rep.Errors.Set("ground", authoritative.Ground.String())
	}
	if predicted.state.Mode != authoritative.Mode {
		rep.Errors.Set("mode", authoritative.Mode.String())
	}
	if predicted.state.Ducked != authoritative.Ducked {
		rep.Errors.Set("ducked", authoritative.Ducked)
	}
	if predicted.state.DuckState != authoritative.DuckState {
		rep.Errors.Set("duck", authoritative.DuckState.String())
	}
	if predicted.state.WaterJumpTime != authoritative.WaterJumpTime {
		rep.Errors.Set("waterjump", game.Round32(authoritative.WaterJumpTime, 3))
	}

	if posErr > p.PositionTolerance || velErr > p.VelocityTolerance || rep.Errors.Len() > 2 {
		p.correct(&rep, authoritative)
	}
	return rep, nil
}

// correct rewinds to authoritative and replays the pending commands on top of it.
func (p *Predictor) correct(rep *Report, authoritative movement.State) {
	p.state = authoritative
	for i, f := range p.pending.All() {
		p.sim.Simulate(&p.state, f.cmd)
		f.state = p.state
		f.checksum = movement.Checksum(p.state)
		_ = p.pending.Set(i, f)
		rep.Replayed++
	}
	rep.Corrected = true
	p.log.WithField("report", rep.String()).Debug("prediction corrected")
}

func (p *Predictor) latest() (frame, bool) {
	if p.pending.Len() == 0 {
		return frame{}, false
	}
	f, err := p.pending.Get(p.pending.Len() - 1)
	return f, err == nil
}
