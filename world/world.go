package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/surface"
)

// Entity is a moving or static box living in the world's entity table.
type Entity struct {
	Name       string
	Origin     mgl32.Vec3
	Mins, Maxs mgl32.Vec3
	Velocity   mgl32.Vec3
	// Conveyor is the base velocity given to anything standing on the entity.
	Conveyor mgl32.Vec3
	Contents collision.Contents
	Group    collision.Group
	Surface  int
	Floating bool
}

// Bounds returns the entity's world space box.
func (e Entity) Bounds() cube.BBox {
	return game.HullBox(e.Origin, e.Mins, e.Maxs)
}

// World is a static set of brushes plus an entity table. Brushes must not be added while a
// sweep is running; entities may be updated between ticks.
type World struct {
	brushes  []Brush
	Surfaces *surface.Table
	Entities *entity.Table[Entity]
}

// New returns an empty world.
func New() *World {
	return &World{
		Surfaces: surface.NewTable(),
		Entities: entity.NewTable[Entity](),
	}
}

// AddBrush adds a static brush to the world.
func (w *World) AddBrush(b Brush) {
	w.brushes = append(w.brushes, b)
}

// Brushes returns the static brushes of the world.
func (w *World) Brushes() []Brush {
	return w.brushes
}

// Sweep implements collision.Query.
func (w *World) Sweep(start, end, mins, maxs mgl32.Vec3, mask collision.Contents, ignore entity.Handle, group collision.Group) collision.Trace {
	tr := collision.Trace{Fraction: 1}
	swept := game.SweptHullBox(start, end, mins, maxs).Grow(1)

	for i := range w.brushes {
		b := &w.brushes[i]
		if b.Contents&mask == 0 || !b.bounds.IntersectsWith(swept) {
			continue
		}
		clipBoxToPlanes(&tr, b.Planes, b.Contents, b.Surface, entity.World, start, end, mins, maxs)
		if tr.AllSolid {
			break
		}
	}

	if !tr.AllSolid && w.Entities != nil {
		for h, e := range w.Entities.All() {
			if h == ignore || e.Contents&mask == 0 || filtered(group, e.Group) {
				continue
			}
			box := e.Bounds()
			if !box.IntersectsWith(swept) {
				continue
			}
			planes := boxPlanes(box)
			clipBoxToPlanes(&tr, planes[:], e.Contents, e.Surface, h, start, end, mins, maxs)
			if tr.AllSolid {
				break
			}
		}
	}

	switch {
	case tr.AllSolid:
		tr.EndPos = start
	case tr.Fraction == 1:
		tr.EndPos = end
	default:
		tr.EndPos = start.Add(end.Sub(start).Mul(tr.Fraction))
	}
	return tr
}

// PointContents implements collision.Query.
func (w *World) PointContents(p mgl32.Vec3) collision.Contents {
	var c collision.Contents
	for i := range w.brushes {
		if w.brushes[i].containsPoint(p) {
			c |= w.brushes[i].Contents
		}
	}
	if w.Entities != nil {
		for _, e := range w.Entities.All() {
			if e.Contents != 0 && e.Bounds().Vec3Within(p) {
				c |= e.Contents
			}
		}
	}
	return c
}

// Surface implements surface.Provider.
func (w *World) Surface(index int) (surface.Sample, bool) {
	return w.Surfaces.Surface(index)
}

// Body implements collision.Bodies.
func (w *World) Body(h entity.Handle) (collision.Body, bool) {
	if h.IsWorld() {
		return collision.Body{}, true
	}
	e, ok := w.Entities.Get(h)
	if !ok {
		return collision.Body{}, false
	}
	return collision.Body{Velocity: e.Velocity, Conveyor: e.Conveyor, Floating: e.Floating}, true
}

// Advance moves every entity along its velocity for dt seconds.
func (w *World) Advance(dt float32) {
	var moved []entity.Handle
	for h, e := range w.Entities.All() {
		if e.Velocity != (mgl32.Vec3{}) {
			moved = append(moved, h)
		}
	}
	for _, h := range moved {
		e, _ := w.Entities.Get(h)
		e.Origin = e.Origin.Add(e.Velocity.Mul(dt))
		w.Entities.Set(h, e)
	}
}

func filtered(group, other collision.Group) bool {
	if group == collision.GroupPlayerMovement {
		return other == collision.GroupDebris || other == collision.GroupPlayer
	}
	return false
}
