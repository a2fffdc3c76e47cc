package movement

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

func TestFrictionStopsGroundedPlayer(t *testing.T) {
	r := newRunner(t, floorWorld(), mgl32.Vec3{0, 0, 0.5})
	r.st.Velocity = mgl32.Vec3{300, 0, 0}

	prev := float32(300)
	stoppedAt := -1
	for i := 0; i < 100; i++ {
		r.tick(Command{})
		if !r.st.Grounded() {
			t.Fatalf("tick %d: expected player to stay grounded", i)
		}

		speed := r.st.Velocity.Len()
		switch {
		case prev > 0 && speed >= prev:
			t.Fatalf("tick %d: speed did not decrease (%v -> %v)", i, prev, speed)
		case prev == 0 && speed != 0:
			t.Fatalf("tick %d: player started moving again (%v)", i, r.st.Velocity)
		}
		if speed == 0 && stoppedAt < 0 {
			stoppedAt = i
		}
		prev = speed
	}
	if stoppedAt < 0 {
		t.Fatalf("player never stopped, velocity %v", r.st.Velocity)
	}
	if !approx(r.st.Origin.Z(), game.DistEpsilon, 1e-3) {
		t.Fatalf("expected player to rest on the floor, got z=%v", r.st.Origin.Z())
	}
}

func TestSpeedCap(t *testing.T) {
	r := newRunner(t, floorWorld(), mgl32.Vec3{0, 0, 0.5})
	for i := 0; i < 200; i++ {
		r.tick(Command{ForwardMove: 10000, SideMove: 10000, ViewAngles: mgl32.Vec3{0, 30, 0}})
		if speed := game.Length2D(r.st.Velocity); speed > r.sim.Settings.MaxSpeed+1e-3 {
			t.Fatalf("tick %d: speed %v above max speed %v", i, speed, r.sim.Settings.MaxSpeed)
		}
	}
	if speed := game.Length2D(r.st.Velocity); !approx(speed, r.sim.Settings.MaxSpeed, 0.01) {
		t.Fatalf("expected to reach max speed, got %v", speed)
	}
}

func TestCommandMaxSpeed(t *testing.T) {
	r := newRunner(t, floorWorld(), mgl32.Vec3{0, 0, 0.5})
	for i := 0; i < 200; i++ {
		cmd := forward(400, 0, 0)
		cmd.MaxSpeed = 100
		r.tick(cmd)
		if speed := game.Length2D(r.st.Velocity); speed > 100+1e-3 {
			t.Fatalf("tick %d: speed %v above command max speed", i, speed)
		}
	}
}

func TestDeadAndFrozenIgnoreInput(t *testing.T) {
	for _, tc := range []struct {
		name string
		set  func(*State)
	}{
		{"dead", func(s *State) { s.Dead = true }},
		{"frozen", func(s *State) { s.Frozen = true }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newRunner(t, floorWorld(), mgl32.Vec3{0, 0, 0.5})
			tc.set(r.st)
			for i := 0; i < 20; i++ {
				r.tick(forward(260, 0, 0))
			}
			if r.st.Velocity != (mgl32.Vec3{}) {
				t.Fatalf("expected no movement, got velocity %v", r.st.Velocity)
			}
		})
	}
}

func TestWallSlide(t *testing.T) {
	w := floorWorld()
	solid(w, cube.Box(100, -1024, 0, 132, 1024, 200))

	r := newRunner(t, w, mgl32.Vec3{80, 0, 0.5})
	r.st.Velocity = mgl32.Vec3{300, 300, 0}
	before := r.st.Velocity.Len()

	res := r.tick(Command{})
	if r.st.Velocity.X() != 0 {
		t.Fatalf("expected x velocity to be clipped, got %v", r.st.Velocity)
	}
	if r.st.Velocity.Y() < 0 {
		t.Fatalf("expected non-negative y velocity, got %v", r.st.Velocity)
	}
	if r.st.Velocity.Len() > before {
		t.Fatalf("speed grew from %v to %v", before, r.st.Velocity.Len())
	}
	if r.st.Origin.Y() <= 0 {
		t.Fatalf("expected to slide along the wall, origin %v", r.st.Origin)
	}
	if res.Blocked&BlockedWall == 0 {
		t.Fatalf("expected wall to be reported as blocking, got %b", res.Blocked)
	}
}

func TestStepUp(t *testing.T) {
	w := floorWorld()
	solid(w, cube.Box(100, -1024, 0, 400, 1024, 12))

	r := newRunner(t, w, mgl32.Vec3{-200, 0, 0.5})
	for i := 0; i < 200; i++ {
		r.tick(forward(250, 0, 0))
		if r.st.StepHeight == 0 {
			continue
		}

		if !approx(r.st.StepHeight, 12, 0.01) {
			t.Fatalf("expected a 12 unit step, got %v", r.st.StepHeight)
		}
		if !approx(r.st.Origin.Z(), 12+game.DistEpsilon, 0.01) {
			t.Fatalf("expected to stand on the step, got z=%v", r.st.Origin.Z())
		}
		if !approx(r.st.Velocity.X(), 250, 0.01) {
			t.Fatalf("expected horizontal speed to be kept, got %v", r.st.Velocity)
		}
		return
	}
	t.Fatalf("player never stepped up, origin %v", r.st.Origin)
}

func TestStepTooHigh(t *testing.T) {
	w := floorWorld()
	solid(w, cube.Box(100, -1024, 0, 400, 1024, 50))

	r := newRunner(t, w, mgl32.Vec3{-200, 0, 0.5})
	for i := 0; i < 200; i++ {
		r.tick(forward(250, 0, 0))
		if r.st.StepHeight != 0 {
			t.Fatalf("tick %d: stepped %v on to a 50 unit ledge", i, r.st.StepHeight)
		}
	}
	if !approx(r.st.Origin.X(), 84-game.DistEpsilon, 0.01) {
		t.Fatalf("expected to stop at the ledge, got %v", r.st.Origin)
	}
	if !approx(r.st.Origin.Z(), game.DistEpsilon, 0.01) {
		t.Fatalf("expected to stay on the floor, got z=%v", r.st.Origin.Z())
	}
	if r.st.Velocity.X() != 0 {
		t.Fatalf("expected velocity into the ledge to be removed, got %v", r.st.Velocity)
	}
}

func TestStaleGroundHandle(t *testing.T) {
	w := floorWorld()
	h := w.Entities.Spawn(world.Entity{
		Origin:   mgl32.Vec3{0, 0, 64},
		Mins:     mgl32.Vec3{-64, -64, -8},
		Maxs:     mgl32.Vec3{64, 64, 0},
		Contents: collision.ContentsSolid,
	})

	r := newRunner(t, w, mgl32.Vec3{0, 0, 64.5})
	r.tick(Command{})
	if r.st.Ground != h {
		t.Fatalf("expected to stand on %v, got %v", h, r.st.Ground)
	}

	w.Entities.Remove(h)
	// Reuse the slot so the index matches but the generation does not.
	w.Entities.Spawn(world.Entity{Origin: mgl32.Vec3{1000, 1000, 1000}, Contents: collision.ContentsSolid})

	r.tick(Command{})
	if r.st.Ground == h {
		t.Fatal("stale ground handle survived a tick")
	}
	if r.st.Grounded() {
		t.Fatalf("expected to be airborne, standing on %v", r.st.Ground)
	}
}

func TestCarriedByMovingPlatform(t *testing.T) {
	w := world.New()
	h := w.Entities.Spawn(world.Entity{
		Mins:     mgl32.Vec3{-512, -512, -16},
		Maxs:     mgl32.Vec3{512, 512, 16},
		Velocity: mgl32.Vec3{100, 0, 0},
		Contents: collision.ContentsSolid,
	})

	r := newRunner(t, w, mgl32.Vec3{0, 0, 16.5})
	for i := 0; i < 60; i++ {
		r.tick(Command{})
		w.Advance(testFrameTime)
	}

	if r.st.Ground != h {
		t.Fatalf("expected to stand on the platform, got %v", r.st.Ground)
	}
	if r.st.BaseVelocity.X() != 100 {
		t.Fatalf("expected platform velocity as base velocity, got %v", r.st.BaseVelocity)
	}
	if net := r.st.Velocity.Add(r.st.BaseVelocity); !approx(net.X(), 100, 0.5) {
		t.Fatalf("expected to move with the platform, net velocity %v", net)
	}
}
