package event

import "github.com/sirupsen/logrus"

// Dispatcher receives effects from the mover.
type Dispatcher interface {
	Dispatch(ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Dispatch(Event) {}

// Recorder keeps every event in order. It is not safe for concurrent use.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Dispatch(ev Event) {
	r.Events = append(r.Events, ev)
}

// Reset drops the recorded events, keeping the backing array.
func (r *Recorder) Reset() {
	clear(r.Events)
	r.Events = r.Events[:0]
}

// Multi forwards each event to every dispatcher in order.
type Multi []Dispatcher

func (m Multi) Dispatch(ev Event) {
	for _, d := range m {
		d.Dispatch(ev)
	}
}

// LogDispatcher writes events to a logger at debug level.
type LogDispatcher struct {
	Log    *logrus.Logger
	Fields logrus.Fields
}

func (l LogDispatcher) Dispatch(ev Event) {
	if l.Log == nil {
		return
	}
	entry := l.Log.WithFields(l.Fields).WithField("tick", ev.Tick())
	switch e := ev.(type) {
	case FootstepEvent:
		entry.WithFields(logrus.Fields{"material": string(e.Material), "volume": e.Volume, "jump": e.Jump}).Debug("footstep")
	case SplashEvent:
		entry.WithFields(logrus.Fields{"origin": e.Origin, "entering": e.Entering}).Debug("splash")
	case ImpactEvent:
		entry.WithFields(logrus.Fields{"intensity": e.Intensity, "landing": e.Landing}).Debug("impact")
	case SurfaceChangedEvent:
		entry.WithFields(logrus.Fields{"old": string(e.Old), "new": string(e.New)}).Debug("surface changed")
	case SwimEvent:
		entry.Debug("swim")
	default:
		entry.Debugf("event %d", ev.ID())
	}
}
