package movement

import (
	"math/rand/v2"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/world"
)

// roomWorld is a walled room with a step and a ramp in it.
func roomWorld() *world.World {
	w := floorWorld()
	solid(w, cube.Box(-320, -320, 0, -300, 320, 256))
	solid(w, cube.Box(300, -320, 0, 320, 320, 256))
	solid(w, cube.Box(-320, -320, 0, 320, -300, 256))
	solid(w, cube.Box(-320, 300, 0, 320, 320, 256))
	solid(w, cube.Box(100, 100, 0, 200, 200, 12))

	ramp := world.BoxBrush(cube.Box(-200, -200, 0, -50, -50, 64), collision.ContentsSolid, 0)
	w.AddBrush(ramp.Cut(world.PlaneThrough(mgl32.Vec3{-200, 0, 0}, mgl32.Vec3{-64, 0, 150})))
	return w
}

func randomCommand(rng *rand.Rand) Command {
	cmd := Command{
		ForwardMove: rng.Float32()*800 - 400,
		SideMove:    rng.Float32()*800 - 400,
		ViewAngles:  mgl32.Vec3{rng.Float32()*178 - 89, rng.Float32() * 360, 0},
	}
	for _, b := range []Buttons{ButtonJump, ButtonDuck, ButtonSpeed} {
		if rng.IntN(4) == 0 {
			cmd.Buttons |= b
		}
	}
	return cmd
}

func TestLockstepSimulation(t *testing.T) {
	a := newRunner(t, roomWorld(), mgl32.Vec3{0, 0, 0.5})
	b := newRunner(t, roomWorld(), mgl32.Vec3{0, 0, 0.5})
	a.sim.Rules, b.sim.Rules = ExtendedRules{}, ExtendedRules{}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 300; i++ {
		cmd := randomCommand(rng)
		ra := a.sim.Simulate(a.st, cmd.withTick(uint64(i), testFrameTime))
		rb := b.sim.Simulate(b.st, cmd.withTick(uint64(i), testFrameTime))

		if *a.st != *b.st {
			t.Fatalf("tick %d: states diverged\n%+v\n%+v", i, *a.st, *b.st)
		}
		if ra != rb {
			t.Fatalf("tick %d: results diverged\n%+v\n%+v", i, ra, rb)
		}
		if Checksum(*a.st) != Checksum(*b.st) {
			t.Fatalf("tick %d: checksums diverged", i)
		}
	}
	if len(a.fx.Events) != len(b.fx.Events) {
		t.Fatalf("expected the same effects, got %d and %d", len(a.fx.Events), len(b.fx.Events))
	}
}

func TestReplayFromEncodedState(t *testing.T) {
	a := newRunner(t, roomWorld(), mgl32.Vec3{0, 0, 0.5})
	rng := rand.New(rand.NewPCG(3, 4))

	cmds := make([]Command, 120)
	for i := range cmds {
		cmds[i] = randomCommand(rng).withTick(uint64(i), testFrameTime)
	}
	for _, cmd := range cmds[:60] {
		a.sim.Simulate(a.st, cmd)
	}

	dat, err := EncodeState(*a.st)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := DecodeState(dat)
	if err != nil {
		t.Fatal(err)
	}

	for _, cmd := range cmds[60:] {
		a.sim.Simulate(a.st, cmd)
		a.sim.Simulate(&restored, cmd)
	}
	if *a.st != restored {
		t.Fatalf("restored state diverged\n%+v\n%+v", *a.st, restored)
	}
}
