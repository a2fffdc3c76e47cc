package event

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/surface"
	"github.com/vmihailenco/msgpack/v5"
)

const EventsVersion = "1"

// Event is a presentation effect raised by the mover. Effects never feed back into the
// simulation, they only note where feedback would be triggered.
type Event interface {
	ID() byte
	Tick() uint64
}

type NopEvent struct {
	EvTick uint64 `msgpack:"tick"`
}

func (n NopEvent) Tick() uint64 {
	return n.EvTick
}

// FootstepEvent is raised on walking cadence and on jumps.
type FootstepEvent struct {
	NopEvent
	Origin   mgl32.Vec3       `msgpack:"origin"`
	Surface  int              `msgpack:"surface"`
	Material surface.Material `msgpack:"material"`
	Volume   float32          `msgpack:"volume"`
	Jump     bool             `msgpack:"jump"`
}

func (FootstepEvent) ID() byte { return EventIDFootstep }

// SplashEvent is raised when the player enters or leaves water.
type SplashEvent struct {
	NopEvent
	Origin     mgl32.Vec3 `msgpack:"origin"`
	Entering   bool       `msgpack:"entering"`
	WaterLevel uint8      `msgpack:"water_level"`
}

func (SplashEvent) ID() byte { return EventIDSplash }

// ImpactEvent is a slam into a wall or a rough landing.
type ImpactEvent struct {
	NopEvent
	Intensity float32 `msgpack:"intensity"`
	Landing   bool    `msgpack:"landing"`
}

func (ImpactEvent) ID() byte { return EventIDImpact }

// SurfaceChangedEvent is raised when the material under the player changes.
type SurfaceChangedEvent struct {
	NopEvent
	Surface int              `msgpack:"surface"`
	Old     surface.Material `msgpack:"old"`
	New     surface.Material `msgpack:"new"`
}

func (SurfaceChangedEvent) ID() byte { return EventIDSurfaceChanged }

// SwimEvent is raised for swim strokes.
type SwimEvent struct {
	NopEvent
	Origin mgl32.Vec3 `msgpack:"origin"`
}

func (SwimEvent) ID() byte { return EventIDSwim }

// Encode serialises ev as its ID followed by its msgpack body.
func Encode(ev Event) ([]byte, error) {
	body, err := msgpack.Marshal(ev)
	if err != nil {
		return nil, oerror.New("error encoding event %d: %w", ev.ID(), err)
	}
	return append([]byte{ev.ID()}, body...), nil
}

// Decode is the inverse of Encode.
func Decode(dat []byte) (Event, error) {
	if len(dat) == 0 {
		return nil, oerror.New("empty event")
	}

	var ev Event
	switch id := dat[0]; id {
	case EventIDFootstep:
		ev = &FootstepEvent{}
	case EventIDSplash:
		ev = &SplashEvent{}
	case EventIDImpact:
		ev = &ImpactEvent{}
	case EventIDSurfaceChanged:
		ev = &SurfaceChangedEvent{}
	case EventIDSwim:
		ev = &SwimEvent{}
	default:
		return nil, oerror.New("unknown event: %d", id)
	}
	if err := msgpack.Unmarshal(dat[1:], ev); err != nil {
		return nil, oerror.New("error decoding event %d: %w", dat[0], err)
	}
	return deref(ev), nil
}

func deref(ev Event) Event {
	switch e := ev.(type) {
	case *FootstepEvent:
		return *e
	case *SplashEvent:
		return *e
	case *ImpactEvent:
		return *e
	case *SurfaceChangedEvent:
		return *e
	case *SwimEvent:
		return *e
	}
	return ev
}

const (
	_ = iota
	EventIDFootstep
	EventIDSplash
	EventIDImpact
	EventIDSurfaceChanged
	EventIDSwim
)
