package prediction

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/world"
	"github.com/stretchr/testify/require"
)

func newSim() *movement.Simulator {
	w := world.New()
	w.AddBrush(world.BoxBrush(cube.Box(-4096, -4096, -64, 4096, 4096, 0), collision.ContentsSolid, 0))
	return &movement.Simulator{World: w, Bodies: w, Surfaces: w, Settings: settings.DefaultSettings()}
}

func commands(n int) []movement.Command {
	cmds := make([]movement.Command, n)
	for i := range cmds {
		cmds[i] = movement.Command{
			Number:      uint64(i + 1),
			ForwardMove: 400,
			SideMove:    float32(i%3-1) * 100,
			ViewAngles:  mgl32.Vec3{0, float32(i * 4), 0},
			FrameTime:   0.015,
		}
		if i == 4 {
			cmds[i].Buttons = movement.ButtonJump
		}
	}
	return cmds
}

// authority runs cmds on its own copy of st and returns the state after each one.
func authority(st movement.State, cmds []movement.Command) []movement.State {
	sim := newSim()
	out := make([]movement.State, len(cmds))
	for i, cmd := range cmds {
		sim.Simulate(&st, cmd)
		out[i] = st
	}
	return out
}

func TestReconcileMatchingPrediction(t *testing.T) {
	start := movement.NewState(mgl32.Vec3{0, 0, 0.5}, 0, settings.DefaultSettings())
	cmds := commands(10)
	auth := authority(start, cmds)

	p := NewPredictor(newSim(), start, 0, nil)
	for _, cmd := range cmds {
		p.Predict(cmd)
	}
	require.Equal(t, 10, p.Pending())
	require.Equal(t, auth[9], p.State())

	rep, err := p.Reconcile(5, auth[4])
	require.NoError(t, err)
	require.False(t, rep.Corrected)
	require.Equal(t, 0, rep.Errors.Len())
	require.Equal(t, 5, p.Pending())
	require.Equal(t, auth[9], p.State())
}

func TestReconcileCorrectsAndReplays(t *testing.T) {
	start := movement.NewState(mgl32.Vec3{0, 0, 0.5}, 0, settings.DefaultSettings())
	cmds := commands(10)

	p := NewPredictor(newSim(), start, 0, nil)
	for _, cmd := range cmds {
		p.Predict(cmd)
	}

	// The authority had the player somewhere else entirely.
	shifted := start
	shifted.Origin = mgl32.Vec3{0, 500, 0.5}
	auth := authority(shifted, cmds)

	rep, err := p.Reconcile(4, auth[3])
	require.NoError(t, err)
	require.True(t, rep.Corrected)
	require.Equal(t, 6, rep.Replayed)
	require.Equal(t, []string{"position", "velocity"}, rep.Errors.Keys())
	require.Equal(t, auth[9], p.State())

	// A second acknowledgement now agrees.
	rep, err = p.Reconcile(7, auth[6])
	require.NoError(t, err)
	require.False(t, rep.Corrected)
	require.Equal(t, 3, p.Pending())
}

func TestReconcileStaleAck(t *testing.T) {
	start := movement.NewState(mgl32.Vec3{0, 0, 0.5}, 0, settings.DefaultSettings())
	cmds := commands(6)
	auth := authority(start, cmds)

	p := NewPredictor(newSim(), start, 0, nil)
	for _, cmd := range cmds {
		p.Predict(cmd)
	}
	_, err := p.Reconcile(3, auth[2])
	require.NoError(t, err)

	_, err = p.Reconcile(2, auth[1])
	require.Error(t, err)
}

func TestReconcileWithoutHistory(t *testing.T) {
	start := movement.NewState(mgl32.Vec3{0, 0, 0.5}, 0, settings.DefaultSettings())
	cmds := commands(4)
	auth := authority(start, cmds)

	p := NewPredictor(newSim(), start, 2, nil)
	for _, cmd := range cmds {
		p.Predict(cmd)
	}
	require.Equal(t, 2, p.Pending())

	// Everything pending is acknowledged past, so the authority is taken as is.
	rep, err := p.Reconcile(9, auth[3])
	require.NoError(t, err)
	require.True(t, rep.Corrected)
	require.Equal(t, 0, rep.Replayed)
	require.Equal(t, auth[3], p.State())
	require.Equal(t, "ack=9 corrected=true replayed=0 [missing=true]", rep.String())
}

func TestReconcileCorrectsTimerState(t *testing.T) {
	start := movement.NewState(mgl32.Vec3{0, 0, 0.5}, 0, settings.DefaultSettings())
	cmds := commands(10)
	auth := authority(start, cmds)

	p := NewPredictor(newSim(), start, 0, nil)
	for _, cmd := range cmds {
		p.Predict(cmd)
	}

	// Same place and speed, but the authority is mid duck and mid water jump.
	off := auth[3]
	off.DuckState = movement.DuckDucking
	off.WaterJumpTime = 1.5

	rep, err := p.Reconcile(4, off)
	require.NoError(t, err)
	require.True(t, rep.Corrected)
	require.Equal(t, 6, rep.Replayed)
	require.Equal(t, []string{"position", "velocity", "duck", "waterjump"}, rep.Errors.Keys())
	pos, _ := rep.Errors.Get("position")
	require.Equal(t, float32(0), pos)
}
