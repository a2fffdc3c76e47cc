package demo

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/world"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testWorld(extra ...cube.BBox) *world.World {
	w := world.New()
	w.AddBrush(world.BoxBrush(cube.Box(-4096, -4096, -64, 4096, 4096, 0), collision.ContentsSolid, 0))
	w.AddBrush(world.BoxBrush(cube.Box(200, -512, 0, 400, 512, 16), collision.ContentsSolid, 0))
	for _, box := range extra {
		w.AddBrush(world.BoxBrush(box, collision.ContentsSolid, 0))
	}
	return w
}

// record simulates n ticks of running and jumping and returns the demo.
func record(t *testing.T, n int) ([]byte, movement.State) {
	t.Helper()
	w := testWorld()
	s := settings.DefaultSettings()
	st := movement.NewState(mgl32.Vec3{0, 0, 0.5}, 0, s)

	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, s, "test", st)
	require.NoError(t, err)

	sim := movement.Simulator{World: w, Bodies: w, Surfaces: w, Effects: rec, Settings: s}
	for i := 0; i < n; i++ {
		cmd := movement.Command{
			Number:      uint64(i + 1),
			ForwardMove: 300,
			ViewAngles:  mgl32.Vec3{0, float32(i % 20), 0},
			FrameTime:   s.TickInterval,
		}
		if i%30 == 10 {
			cmd.Buttons = movement.ButtonJump
		}
		sim.Simulate(&st, cmd)
		require.NoError(t, rec.Frame(cmd, st))
	}
	require.Equal(t, n, rec.Frames())
	return buf.Bytes(), st
}

func TestReplayReproduces(t *testing.T) {
	dat, final := record(t, 120)

	w := testWorld()
	sum, err := Replay(bytes.NewReader(dat), movement.Simulator{World: w, Bodies: w, Surfaces: w}, nil)
	require.NoError(t, err)
	require.Equal(t, 120, sum.Frames)
	require.Equal(t, final, sum.Final)
	// Jump footsteps at the very least.
	require.NotZero(t, sum.Events)
}

func TestReplayDetectsDivergence(t *testing.T) {
	dat, _ := record(t, 120)

	// A wall the recording never saw.
	w := testWorld(cube.Box(100, -512, 0, 120, 512, 512))
	_, err := Replay(bytes.NewReader(dat), movement.Simulator{World: w, Bodies: w, Surfaces: w}, nil)

	var div *DivergenceError
	require.True(t, errors.As(err, &div), "expected a divergence, got %v", err)
	require.Greater(t, div.Command, uint64(1))
}

func TestReaderRejectsOtherVersions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(Header{Version: Version + 1}))
	_, err := NewReader(&buf)
	require.Error(t, err)

	_, err = NewReader(bytes.NewReader(nil))
	require.Error(t, err)
}

func TestReaderFrames(t *testing.T) {
	dat, _ := record(t, 3)
	r, err := NewReader(bytes.NewReader(dat))
	require.NoError(t, err)
	require.Equal(t, "test", r.Header.Map)

	st, err := r.Initial()
	require.NoError(t, err)
	require.Equal(t, mgl32.Vec3{0, 0, 0.5}, st.Origin)

	for i := 1; i <= 3; i++ {
		f, err := r.Next()
		require.NoError(t, err)
		require.Equal(t, uint64(i), f.Command.Number)
	}
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}
