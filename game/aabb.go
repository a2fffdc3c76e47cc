package game

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// HullBox returns the world space box of a hull with the given extents placed at origin.
func HullBox(origin, mins, maxs mgl32.Vec3) cube.BBox {
	return cube.Box(mins[0], mins[1], mins[2], maxs[0], maxs[1], maxs[2]).Translate(origin)
}

// SweptHullBox returns a box enclosing the hull along the whole segment from start to end.
func SweptHullBox(start, end, mins, maxs mgl32.Vec3) cube.BBox {
	return HullBox(start, mins, maxs).Extend(end.Sub(start))
}

// HullExtents returns the mins and maxs of an upright hull of the given width and height, with
// its origin at the bottom centre.
func HullExtents(width, height float32) (mins, maxs mgl32.Vec3) {
	h := width / 2
	return mgl32.Vec3{-h, -h, 0}, mgl32.Vec3{h, h, height}
}
