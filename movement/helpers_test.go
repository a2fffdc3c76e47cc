package movement

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/world"
)

const testFrameTime = float32(0.015)

func floorWorld() *world.World {
	w := world.New()
	w.AddBrush(world.BoxBrush(cube.Box(-4096, -4096, -64, 4096, 4096, 0), collision.ContentsSolid, 0))
	return w
}

func solid(w *world.World, box cube.BBox) {
	w.AddBrush(world.BoxBrush(box, collision.ContentsSolid, 0))
}

type runner struct {
	t   *testing.T
	w   *world.World
	sim *Simulator
	st  *State
	fx  *event.Recorder
	n   uint64
}

func newRunner(t *testing.T, w *world.World, origin mgl32.Vec3) *runner {
	t.Helper()
	fx := &event.Recorder{}
	sim := &Simulator{
		World:    w,
		Bodies:   w,
		Surfaces: w,
		Effects:  fx,
		Settings: settings.DefaultSettings(),
	}
	st := NewState(origin, 0, sim.Settings)
	return &runner{t: t, w: w, sim: sim, st: &st, fx: fx}
}

// tick runs one command and fails the test if the player ends up inside something.
func (r *runner) tick(cmd Command) Result {
	r.t.Helper()
	r.n++
	cmd.Number = r.n
	if cmd.FrameTime == 0 {
		cmd.FrameTime = testFrameTime
	}
	res := r.sim.Simulate(r.st, cmd)
	if r.st.Mode != ModeNoClip {
		r.assertFree()
	}
	return res
}

func (r *runner) assertFree() {
	r.t.Helper()
	mins, maxs := r.st.Hull(r.sim.Settings)
	tr := r.sim.World.Sweep(r.st.Origin, r.st.Origin, mins, maxs, collision.MaskPlayerSolid, r.st.Self, collision.GroupPlayerMovement)
	if tr.StartSolid || tr.Fraction != 1 {
		r.t.Fatalf("tick %d: player embedded at %v (startsolid=%t fraction=%v)", r.n, r.st.Origin, tr.StartSolid, tr.Fraction)
	}
}

func (r *runner) splashes() []event.SplashEvent {
	var out []event.SplashEvent
	for _, ev := range r.fx.Events {
		if s, ok := ev.(event.SplashEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *runner) impacts() []event.ImpactEvent {
	var out []event.ImpactEvent
	for _, ev := range r.fx.Events {
		if s, ok := ev.(event.ImpactEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

func forward(speed, yaw float32, buttons Buttons) Command {
	return Command{ForwardMove: speed, ViewAngles: mgl32.Vec3{0, yaw, 0}, Buttons: buttons}
}

func approx(a, b, delta float32) bool {
	d := a - b
	return d <= delta && d >= -delta
}

func (c Command) withTick(n uint64, frameTime float32) Command {
	c.Number = n
	c.FrameTime = frameTime
	return c
}
