package movement

import (
	"strings"
	"sync/atomic"

	"github.com/oomph-ac/pmove/oerror"
	"github.com/sirupsen/logrus"
)

// DebugMode is a category of debug output from the mover.
type DebugMode uint32

const (
	DebugModeMovementSim DebugMode = 1 << iota
	DebugModeCollision
	DebugModeGround
	DebugModeDuck
	DebugModeWater
	DebugModeLadder
)

var DebugModeList = []string{
	"movement_sim",
	"collision",
	"ground",
	"duck",
	"water",
	"ladder",
}

// ParseDebugMode returns the mode with the given name.
func ParseDebugMode(name string) (DebugMode, error) {
	for i, n := range DebugModeList {
		if n == strings.ToLower(name) {
			return DebugMode(1 << i), nil
		}
	}
	return 0, oerror.New("unknown debug mode %q (expected one of %s)", name, strings.Join(DebugModeList, ", "))
}

// Debugger routes mover debug output to a logger. A nil Debugger is valid and silent.
type Debugger struct {
	Log   *logrus.Logger
	modes atomic.Uint32
}

// NewDebugger returns a debugger writing to log with no modes enabled.
func NewDebugger(log *logrus.Logger) *Debugger {
	return &Debugger{Log: log}
}

// Toggle flips the given mode and returns whether it is now enabled.
func (d *Debugger) Toggle(mode DebugMode) bool {
	for {
		old := d.modes.Load()
		if d.modes.CompareAndSwap(old, old^uint32(mode)) {
			return old&uint32(mode) == 0
		}
	}
}

// Enabled reports whether output for mode is enabled.
func (d *Debugger) Enabled(mode DebugMode) bool {
	return d != nil && d.Log != nil && d.modes.Load()&uint32(mode) != 0
}

// Notify logs the message if mode is enabled and cond is true.
func (d *Debugger) Notify(mode DebugMode, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	d.Log.Debugf(format, args...)
}
