package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/surface"
	"github.com/stretchr/testify/require"
)

const testMap = `
[spawn]
origin = [0.0, 0.0, 1.0]
yaw = 90.0

[[surface]]
name = "ice"
friction = 0.1
material = "I"

[[surface]]
name = "rungs"
friction = 0.8
climbable = true

[[brush]]
min = [-512.0, -512.0, -16.0]
max = [512.0, 512.0, 0.0]
surface = "ice"

[[brush]]
min = [200.0, -64.0, 0.0]
max = [216.0, 64.0, 256.0]
contents = ["playerclip", "ladder"]
surface = "rungs"

[[brush]]
min = [0.0, 100.0, 0.0]
max = [100.0, 200.0, 50.0]
  [[brush.cut]]
  point = [0.0, 0.0, 0.0]
  normal = [-1.0, 0.0, 2.0]

[[entity]]
name = "lift"
origin = [-200.0, 0.0, 0.0]
mins = [-32.0, -32.0, 0.0]
maxs = [32.0, 32.0, 8.0]
velocity = [0.0, 0.0, 50.0]
surface = "ice"
`

func TestLoad(t *testing.T) {
	w, spawn, err := Load([]byte(testMap))
	require.NoError(t, err)
	require.Equal(t, mgl32.Vec3{0, 0, 1}, spawn.Origin)
	require.Equal(t, float32(90), spawn.Yaw)

	require.Len(t, w.Brushes(), 3)
	require.Len(t, w.Brushes()[2].Planes, 7)
	require.Equal(t, collision.ContentsPlayerClip|collision.ContentsLadder, w.Brushes()[1].Contents)

	ice, ok := w.Surface(w.Brushes()[0].Surface)
	require.True(t, ok)
	require.Equal(t, surface.MaterialIce, ice.Material)

	rungs, _ := w.Surface(w.Brushes()[1].Surface)
	require.True(t, rungs.Climbable)

	require.Equal(t, 1, w.Entities.Len())
	for _, e := range w.Entities.All() {
		require.Equal(t, "lift", e.Name)
		require.Equal(t, collision.ContentsSolid, e.Contents)
		require.Equal(t, mgl32.Vec3{0, 0, 50}, e.Velocity)
	}
}

func TestLoadErrors(t *testing.T) {
	for name, src := range map[string]string{
		"bad toml":        "[[brush]\n",
		"short vector":    "[[brush]]\nmin = [0.0, 0.0]\nmax = [1.0, 1.0, 1.0]\n",
		"unknown surface": "[[brush]]\nmin = [0.0, 0.0, 0.0]\nmax = [1.0, 1.0, 1.0]\nsurface = \"lava\"\n",
		"unknown content": "[[brush]]\nmin = [0.0, 0.0, 0.0]\nmax = [1.0, 1.0, 1.0]\ncontents = [\"plasma\"]\n",
	} {
		_, _, err := Load([]byte(src))
		require.Error(t, err, name)
	}
}
