package world

import (
	"os"
	"strings"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/surface"
	"github.com/pelletier/go-toml"
)

// Spawn is where players enter a loaded map.
type Spawn struct {
	Origin mgl32.Vec3
	Yaw    float32
}

type mapFile struct {
	Spawn struct {
		Origin []float32 `toml:"origin"`
		Yaw    float32   `toml:"yaw"`
	} `toml:"spawn"`
	Surfaces []struct {
		Name       string  `toml:"name"`
		Friction   float32 `toml:"friction"`
		JumpFactor float32 `toml:"jump_factor"`
		Material   string  `toml:"material"`
		Climbable  bool    `toml:"climbable"`
	} `toml:"surface"`
	Brushes []struct {
		Min      []float32 `toml:"min"`
		Max      []float32 `toml:"max"`
		Contents []string  `toml:"contents"`
		Surface  string    `toml:"surface"`
		Cuts     []struct {
			Point  []float32 `toml:"point"`
			Normal []float32 `toml:"normal"`
		} `toml:"cut"`
	} `toml:"brush"`
	Entities []struct {
		Name     string    `toml:"name"`
		Origin   []float32 `toml:"origin"`
		Mins     []float32 `toml:"mins"`
		Maxs     []float32 `toml:"maxs"`
		Velocity []float32 `toml:"velocity"`
		Conveyor []float32 `toml:"conveyor"`
		Contents []string  `toml:"contents"`
		Surface  string    `toml:"surface"`
		Floating bool      `toml:"floating"`
		Debris   bool      `toml:"debris"`
	} `toml:"entity"`
}

var contentNames = map[string]collision.Contents{
	"solid":      collision.ContentsSolid,
	"window":     collision.ContentsWindow,
	"grate":      collision.ContentsGrate,
	"water":      collision.ContentsWater,
	"slime":      collision.ContentsSlime,
	"playerclip": collision.ContentsPlayerClip,
	"monster":    collision.ContentsMonster,
	"ladder":     collision.ContentsLadder,
}

// LoadFile reads a TOML map from path.
func LoadFile(path string) (*World, Spawn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Spawn{}, oerror.New("error reading map: %w", err)
	}
	return Load(data)
}

// Load builds a world from a TOML map description.
func Load(data []byte) (*World, Spawn, error) {
	var f mapFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, Spawn{}, oerror.New("error decoding map: %w", err)
	}

	w := New()
	for i, s := range f.Surfaces {
		mat := surface.MaterialDefault
		if s.Material != "" {
			mat = surface.Material(s.Material[0])
		}
		if _, err := w.Surfaces.Add(surface.Sample{
			Name:       s.Name,
			Friction:   s.Friction,
			JumpFactor: s.JumpFactor,
			Material:   mat,
			Climbable:  s.Climbable,
		}); err != nil {
			return nil, Spawn{}, oerror.New("surface %d: %w", i, err)
		}
	}

	for i, b := range f.Brushes {
		min, err := vec3(b.Min)
		if err != nil {
			return nil, Spawn{}, oerror.New("brush %d min: %w", i, err)
		}
		max, err := vec3(b.Max)
		if err != nil {
			return nil, Spawn{}, oerror.New("brush %d max: %w", i, err)
		}
		contents, err := parseContents(b.Contents)
		if err != nil {
			return nil, Spawn{}, oerror.New("brush %d: %w", i, err)
		}
		surfaceIndex, err := w.surfaceIndex(b.Surface)
		if err != nil {
			return nil, Spawn{}, oerror.New("brush %d: %w", i, err)
		}

		brush := BoxBrush(cube.Box(min[0], min[1], min[2], max[0], max[1], max[2]), contents, surfaceIndex)
		for j, c := range b.Cuts {
			point, err := vec3(c.Point)
			if err != nil {
				return nil, Spawn{}, oerror.New("brush %d cut %d point: %w", i, j, err)
			}
			normal, err := vec3(c.Normal)
			if err != nil || normal.Len() == 0 {
				return nil, Spawn{}, oerror.New("brush %d cut %d: invalid normal", i, j)
			}
			brush = brush.Cut(PlaneThrough(point, normal))
		}
		w.AddBrush(brush)
	}

	for i, e := range f.Entities {
		ent := Entity{Name: e.Name, Group: collision.GroupNone, Floating: e.Floating}
		if e.Debris {
			ent.Group = collision.GroupDebris
		}
		var err error
		if ent.Origin, err = vec3(e.Origin); err != nil {
			return nil, Spawn{}, oerror.New("entity %d origin: %w", i, err)
		}
		if ent.Mins, err = vec3(e.Mins); err != nil {
			return nil, Spawn{}, oerror.New("entity %d mins: %w", i, err)
		}
		if ent.Maxs, err = vec3(e.Maxs); err != nil {
			return nil, Spawn{}, oerror.New("entity %d maxs: %w", i, err)
		}
		if ent.Velocity, err = optionalVec3(e.Velocity); err != nil {
			return nil, Spawn{}, oerror.New("entity %d velocity: %w", i, err)
		}
		if ent.Conveyor, err = optionalVec3(e.Conveyor); err != nil {
			return nil, Spawn{}, oerror.New("entity %d conveyor: %w", i, err)
		}
		if ent.Contents, err = parseContents(e.Contents); err != nil {
			return nil, Spawn{}, oerror.New("entity %d: %w", i, err)
		}
		if ent.Surface, err = w.surfaceIndex(e.Surface); err != nil {
			return nil, Spawn{}, oerror.New("entity %d: %w", i, err)
		}
		w.Entities.Spawn(ent)
	}

	spawn := Spawn{Yaw: f.Spawn.Yaw}
	if len(f.Spawn.Origin) != 0 {
		origin, err := vec3(f.Spawn.Origin)
		if err != nil {
			return nil, Spawn{}, oerror.New("spawn origin: %w", err)
		}
		spawn.Origin = origin
	}
	return w, spawn, nil
}

func (w *World) surfaceIndex(name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	idx, ok := w.Surfaces.Index(name)
	if !ok {
		return 0, oerror.New("unknown surface %q", name)
	}
	return idx, nil
}

func parseContents(names []string) (collision.Contents, error) {
	if len(names) == 0 {
		return collision.ContentsSolid, nil
	}
	var c collision.Contents
	for _, n := range names {
		v, ok := contentNames[strings.ToLower(n)]
		if !ok {
			return 0, oerror.New("unknown contents %q", n)
		}
		c |= v
	}
	return c, nil
}

func vec3(v []float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, oerror.New("expected 3 components, got %d", len(v))
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

func optionalVec3(v []float32) (mgl32.Vec3, error) {
	if len(v) == 0 {
		return mgl32.Vec3{}, nil
	}
	return vec3(v)
}
