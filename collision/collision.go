package collision

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/entity"
)

// Contents is a bitmask describing what a volume is made of.
type Contents uint32

const ContentsEmpty Contents = 0

const (
	ContentsSolid Contents = 1 << iota
	ContentsWindow
	ContentsGrate
	ContentsWater
	ContentsSlime
	ContentsPlayerClip
	ContentsMonster
	ContentsLadder
)

const (
	// MaskPlayerSolid is everything that blocks a walking player.
	MaskPlayerSolid = ContentsSolid | ContentsWindow | ContentsGrate | ContentsPlayerClip | ContentsMonster
	// MaskWater is every liquid the player can swim in.
	MaskWater = ContentsWater | ContentsSlime
)

// Group filters which entities a sweep may hit.
type Group uint8

const (
	GroupNone Group = iota
	// GroupPlayerMovement collides with everything except debris and other players.
	GroupPlayerMovement
	GroupDebris
	GroupPlayer
)

// Plane is an oriented plane, Normal·p = Dist.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
}

// Trace is the result of sweeping a box through the world.
type Trace struct {
	// Fraction is in [0, 1]; 1 means the sweep reached its end unobstructed.
	Fraction float32
	EndPos   mgl32.Vec3
	Plane    Plane

	StartSolid bool
	AllSolid   bool

	Contents Contents
	// Surface is an index into the surface property table of the thing hit.
	Surface int
	// Entity is the world handle, an entity handle, or entity.Nil if nothing was hit.
	Entity entity.Handle
}

// Hit reports whether the sweep struck something.
func (t Trace) Hit() bool {
	return t.Fraction < 1 || t.StartSolid
}

// HitWorld reports whether the thing struck is the static world.
func (t Trace) HitWorld() bool {
	return t.Entity.IsWorld()
}

// Query is the collision service the mover sweeps its hull through.
type Query interface {
	// Sweep moves the axis aligned box [mins, maxs] from start to end, stopping at the first
	// thing matching mask that is not ignore and not filtered by group.
	Sweep(start, end, mins, maxs mgl32.Vec3, mask Contents, ignore entity.Handle, group Group) Trace
	// PointContents returns the contents at a point.
	PointContents(point mgl32.Vec3) Contents
}

// Body is what the mover needs to know about an entity it stands on.
type Body struct {
	Velocity mgl32.Vec3
	// Conveyor is the base velocity imparted to anything standing on the body.
	Conveyor mgl32.Vec3
	Floating bool
}

// Bodies resolves entity handles to bodies. The world handle always resolves to a static body.
type Bodies interface {
	Body(h entity.Handle) (Body, bool)
}
