package simulation

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/prediction"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/world"
	"github.com/stretchr/testify/require"
)

func floorWorld() *world.World {
	w := world.New()
	w.AddBrush(world.BoxBrush(cube.Box(-4096, -4096, -64, 4096, 4096, 0), collision.ContentsSolid, 0))
	return w
}

func newServer(t *testing.T, w *world.World, fx event.Dispatcher) *Server {
	t.Helper()
	s, err := New(Config{World: w, Settings: settings.DefaultSettings(), Effects: fx})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func run(n uint64, buttons movement.Buttons) movement.Command {
	return movement.Command{Number: n, ForwardMove: 400, Buttons: buttons}
}

func TestPlayersDoNotCollide(t *testing.T) {
	s := newServer(t, floorWorld(), nil)
	a := s.Join("a", mgl32.Vec3{0, 0, 0.5}, 0)
	b := s.Join("b", mgl32.Vec3{0, 0, 0.5}, 0)
	require.Equal(t, []entity.Handle{a, b}, s.Players())

	for i := uint64(1); i <= 50; i++ {
		require.NoError(t, s.Queue(a, run(i, 0)))
		require.NoError(t, s.Queue(b, run(i, 0)))
		s.Tick()
	}

	sa, ok := s.State(a)
	require.True(t, ok)
	sb, ok := s.State(b)
	require.True(t, ok)
	require.Greater(t, sa.Origin.X(), float32(100))
	require.Equal(t, sa.Origin, sb.Origin)
	require.Equal(t, sa.Velocity, sb.Velocity)

	// The world entity follows the player.
	e, ok := s.world.Entities.Get(a)
	require.True(t, ok)
	require.Equal(t, sa.Origin, e.Origin)
	require.Equal(t, uint64(50), s.CurrentTick())
}

func TestQueueErrors(t *testing.T) {
	s, err := New(Config{World: floorWorld(), Settings: settings.DefaultSettings(), CommandBacklog: 2})
	require.NoError(t, err)
	defer s.Close()

	require.Error(t, s.Queue(entity.Handle{Index: 40, Generation: 1}, run(1, 0)))

	h := s.Join("a", mgl32.Vec3{0, 0, 0.5}, 0)
	require.NoError(t, s.Queue(h, run(1, 0)))
	require.Error(t, s.Queue(h, run(1, 0)), "duplicate command")
	require.NoError(t, s.Queue(h, run(2, 0)))
	require.Error(t, s.Queue(h, run(3, 0)), "backlog full")

	require.NoError(t, s.Leave(h))
	require.Error(t, s.Leave(h))
	require.Error(t, s.Queue(h, run(4, 0)))
	_, ok := s.world.Entities.Get(h)
	require.False(t, ok)
}

func TestCommandsPerTick(t *testing.T) {
	s := newServer(t, floorWorld(), nil)
	h := s.Join("a", mgl32.Vec3{0, 0, 0.5}, 0)
	for i := uint64(1); i <= 10; i++ {
		require.NoError(t, s.Queue(h, run(i, 0)))
	}

	s.Tick()
	snap, ok := s.Snapshot(h)
	require.True(t, ok)
	require.Equal(t, uint64(DefaultCommandsPerTick), snap.Ack)

	s.Tick()
	s.Tick()
	snap, ok = s.Snapshot(h)
	require.True(t, ok)
	require.Equal(t, uint64(10), snap.Ack)

	old, ok := s.SnapshotFor(h, 8)
	require.True(t, ok)
	require.Equal(t, uint64(2), old.Tick)
	_, ok = s.SnapshotFor(h, 5)
	require.False(t, ok, "commands 5 and 6 ran in the same tick as 7 and 8")
}

func TestEffectsAreForwarded(t *testing.T) {
	fx := &event.Recorder{}
	s := newServer(t, floorWorld(), fx)
	a := s.Join("a", mgl32.Vec3{0, 0, 0.5}, 0)
	b := s.Join("b", mgl32.Vec3{100, 0, 0.5}, 0)

	require.NoError(t, s.Queue(a, movement.Command{Number: 1}))
	require.NoError(t, s.Queue(b, movement.Command{Number: 1}))
	s.Tick()
	fx.Reset()

	require.NoError(t, s.Queue(a, movement.Command{Number: 2, Buttons: movement.ButtonJump}))
	require.NoError(t, s.Queue(b, movement.Command{Number: 2, Buttons: movement.ButtonJump}))
	s.Tick()

	var jumps []event.FootstepEvent
	for _, ev := range fx.Events {
		if f, ok := ev.(event.FootstepEvent); ok && f.Jump {
			jumps = append(jumps, f)
		}
	}
	require.Len(t, jumps, 2)
	// Join order.
	require.Less(t, jumps[0].Origin.X(), jumps[1].Origin.X())
}

func TestCarriedByPlatform(t *testing.T) {
	w := world.New()
	platform := w.Entities.Spawn(world.Entity{
		Name:     "platform",
		Origin:   mgl32.Vec3{0, 0, -16},
		Mins:     mgl32.Vec3{-128, -128, 0},
		Maxs:     mgl32.Vec3{128, 128, 16},
		Velocity: mgl32.Vec3{100, 0, 0},
		Contents: collision.ContentsSolid,
	})

	s := newServer(t, w, nil)
	h := s.Join("a", mgl32.Vec3{0, 0, 0.5}, 0)
	for i := uint64(1); i <= 200; i++ {
		require.NoError(t, s.Queue(h, movement.Command{Number: i}))
		s.Tick()
	}

	st, _ := s.State(h)
	require.Equal(t, platform, st.Ground)
	e, _ := w.Entities.Get(platform)
	require.InDelta(t, 300, e.Origin.X(), 0.01)
	require.Greater(t, st.Origin.X(), float32(200))
	require.InDelta(t, 100, st.BaseVelocity.X(), 1e-3)
}

func TestPredictionAgreesWithServer(t *testing.T) {
	s := newServer(t, floorWorld(), nil)
	spawn := mgl32.Vec3{0, 0, 0.5}
	h := s.Join("a", spawn, 0)

	client := floorWorld()
	st := movement.NewState(spawn, 0, settings.DefaultSettings())
	st.Self = h
	p := prediction.NewPredictor(&movement.Simulator{World: client, Bodies: client, Surfaces: client, Settings: settings.DefaultSettings()}, st, 0, nil)

	for i := uint64(1); i <= 40; i++ {
		cmd := run(i, 0)
		if i == 20 {
			cmd.Buttons = movement.ButtonJump
		}
		cmd.FrameTime = settings.DefaultSettings().TickInterval
		p.Predict(cmd)
		require.NoError(t, s.Queue(h, cmd))
		s.Tick()

		snap, ok := s.Snapshot(h)
		require.True(t, ok)
		rep, err := p.Reconcile(snap.Ack, snap.State)
		require.NoError(t, err)
		require.False(t, rep.Corrected, "tick %d: %s", i, rep)
	}
	require.Equal(t, 0, p.Pending())
}

func TestUpdateSettings(t *testing.T) {
	s := newServer(t, floorWorld(), nil)
	bad := settings.DefaultSettings()
	bad.HullWidth = 0
	require.Error(t, s.UpdateSettings(bad))

	slow := settings.DefaultSettings()
	slow.MaxSpeed = 100
	require.NoError(t, s.UpdateSettings(slow))

	h := s.Join("a", mgl32.Vec3{0, 0, 0.5}, 0)
	for i := uint64(1); i <= 100; i++ {
		require.NoError(t, s.Queue(h, run(i, 0)))
		s.Tick()
	}
	st, _ := s.State(h)
	require.LessOrEqual(t, st.Velocity.Len(), float32(100.01))
}
