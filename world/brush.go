package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/game"
)

// Brush is a convex solid bounded by planes whose normals point out of the solid.
type Brush struct {
	Planes   []collision.Plane
	Contents collision.Contents
	Surface  int

	bounds cube.BBox
}

// BoxBrush returns an axis aligned brush filling box.
func BoxBrush(box cube.BBox, contents collision.Contents, surfaceIndex int) Brush {
	planes := boxPlanes(box)
	return Brush{Planes: planes[:], Contents: contents, Surface: surfaceIndex, bounds: box}
}

// Cut returns a copy of b with the half-space behind p removed from the solid. The normal of p
// points out of what remains.
func (b Brush) Cut(p collision.Plane) Brush {
	planes := make([]collision.Plane, len(b.Planes), len(b.Planes)+1)
	copy(planes, b.Planes)
	b.Planes = append(planes, p)
	return b
}

// Bounds returns a box enclosing the brush.
func (b Brush) Bounds() cube.BBox {
	return b.bounds
}

// PlaneThrough returns the plane with the given normal passing through point.
func PlaneThrough(point, normal mgl32.Vec3) collision.Plane {
	n, _ := game.Normalize(normal)
	return collision.Plane{Normal: n, Dist: n.Dot(point)}
}

func (b Brush) containsPoint(p mgl32.Vec3) bool {
	for _, pl := range b.Planes {
		if p.Dot(pl.Normal)-pl.Dist > 0 {
			return false
		}
	}
	return true
}

func boxPlanes(box cube.BBox) [6]collision.Plane {
	min, max := box.Min(), box.Max()
	return [6]collision.Plane{
		{Normal: mgl32.Vec3{1, 0, 0}, Dist: max[0]},
		{Normal: mgl32.Vec3{-1, 0, 0}, Dist: -min[0]},
		{Normal: mgl32.Vec3{0, 1, 0}, Dist: max[1]},
		{Normal: mgl32.Vec3{0, -1, 0}, Dist: -min[1]},
		{Normal: mgl32.Vec3{0, 0, 1}, Dist: max[2]},
		{Normal: mgl32.Vec3{0, 0, -1}, Dist: -min[2]},
	}
}

// clipBoxToPlanes sweeps the box [mins, maxs] from start to end against the convex solid
// described by planes, and records the hit in tr if it is closer than what tr already holds.
// Every plane is pushed out by the box's support point so the box can be treated as a point.
func clipBoxToPlanes(tr *collision.Trace, planes []collision.Plane, contents collision.Contents, surfaceIndex int, hit entity.Handle, start, end, mins, maxs mgl32.Vec3) {
	enterFrac, leaveFrac := float32(-1), float32(1)
	var clip collision.Plane
	startOut, getOut := false, false

	for _, p := range planes {
		var ofs mgl32.Vec3
		for j := 0; j < 3; j++ {
			if p.Normal[j] < 0 {
				ofs[j] = maxs[j]
			} else {
				ofs[j] = mins[j]
			}
		}
		dist := p.Dist - ofs.Dot(p.Normal)
		d1 := start.Dot(p.Normal) - dist
		d2 := end.Dot(p.Normal) - dist

		if d2 > 0 {
			getOut = true
		}
		if d1 > 0 {
			startOut = true
		}
		// Completely in front of this face, so the box never touches the solid.
		if d1 > 0 && (d2 >= game.DistEpsilon || d2 >= d1) {
			return
		}
		// Completely behind this face; some other face decides.
		if d1 <= 0 && d2 <= 0 {
			continue
		}

		if d1 > d2 {
			f := (d1 - game.DistEpsilon) / (d1 - d2)
			if f < 0 {
				f = 0
			}
			if f > enterFrac {
				enterFrac = f
				clip = p
			}
		} else {
			f := (d1 + game.DistEpsilon) / (d1 - d2)
			if f > 1 {
				f = 1
			}
			if f < leaveFrac {
				leaveFrac = f
			}
		}
	}

	if !startOut {
		tr.StartSolid = true
		tr.Contents |= contents
		if tr.Entity.IsNil() {
			tr.Entity = hit
			tr.Surface = surfaceIndex
		}
		if !getOut {
			tr.AllSolid = true
			tr.Fraction = 0
			tr.Entity = hit
			tr.Surface = surfaceIndex
		}
		return
	}

	if enterFrac < leaveFrac && enterFrac > -1 && enterFrac < tr.Fraction {
		if enterFrac < 0 {
			enterFrac = 0
		}
		tr.Fraction = enterFrac
		tr.Plane = clip
		tr.Contents = contents
		tr.Surface = surfaceIndex
		tr.Entity = hit
	}
}
