package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/surface"
)

// Mode selects which mover runs for a tick.
type Mode uint8

const (
	ModeWalk Mode = iota
	ModeNoClip
	ModeLadder
	ModeObserver
	ModeIsometric
)

func (m Mode) String() string {
	switch m {
	case ModeWalk:
		return "walk"
	case ModeNoClip:
		return "noclip"
	case ModeLadder:
		return "ladder"
	case ModeObserver:
		return "observer"
	case ModeIsometric:
		return "isometric"
	}
	return "unknown"
}

// WaterLevel is how deep the player is submerged.
type WaterLevel uint8

const (
	WaterLevelNotInWater WaterLevel = iota
	WaterLevelFeet
	WaterLevelWaist
	WaterLevelEyes
)

// DuckState is the crouch sub-state.
type DuckState uint8

const (
	DuckStanding DuckState = iota
	// DuckDucking is the transition down. The hull is still the standing hull.
	DuckDucking
	DuckDucked
	// DuckUnducking is the transition up. The hull is still the ducked hull.
	DuckUnducking
)

func (d DuckState) String() string {
	switch d {
	case DuckStanding:
		return "standing"
	case DuckDucking:
		return "ducking"
	case DuckDucked:
		return "ducked"
	case DuckUnducking:
		return "unducking"
	}
	return "unknown"
}

// State is everything the mover reads and writes for one player. It is plain data so it can be
// copied, encoded and restored for prediction and replays.
type State struct {
	Origin   mgl32.Vec3
	Velocity mgl32.Vec3
	// BaseVelocity is velocity imparted by conveyors and moving ground, integrated alongside
	// Velocity but never stored in it.
	BaseVelocity mgl32.Vec3
	Angles       mgl32.Vec3

	// Self is the player's own entity, ignored by its sweeps.
	Self   entity.Handle
	Ground entity.Handle
	// SegmentStart is carried for path-following code outside the mover.
	SegmentStart entity.Handle

	Mode Mode

	WaterLevel WaterLevel
	WaterType  collision.Contents
	// WaterJumpTime is the seconds left of an active water jump, or zero.
	WaterJumpTime float32
	WaterJumpVel  mgl32.Vec3

	DuckState DuckState
	// DuckElapsed is seconds since the current duck or unduck started, in [0, DuckDuration].
	DuckElapsed float32
	// Ducked is true while the ducked hull is in use.
	Ducked     bool
	ViewOffset float32

	LadderNormal mgl32.Vec3

	FallVelocity float32

	SurfaceFriction float32
	Surface         int
	SurfaceMaterial surface.Material

	StepSoundTime float32
	SwimSoundTime float32

	// StepHeight is how far the player was stepped up during the last tick.
	StepHeight float32

	OldButtons   Buttons
	GravityScale float32

	Dead         bool
	Frozen       bool
	SlowMovement bool
}

// NewState returns a standing, airborne walker at origin facing yaw.
func NewState(origin mgl32.Vec3, yaw float32, cfg settings.Movement) State {
	return State{
		Origin:          origin,
		Angles:          mgl32.Vec3{0, yaw, 0},
		Mode:            ModeWalk,
		ViewOffset:      cfg.ViewOffset(false),
		SurfaceFriction: 1,
		GravityScale:    1,
	}
}

// Grounded reports whether the player has a ground entity.
func (s *State) Grounded() bool {
	return !s.Ground.IsNil()
}

// WaterJumping reports whether a water jump is in progress.
func (s *State) WaterJumping() bool {
	return s.WaterJumpTime > 0
}

// Hull returns the extents of the hull currently in use.
func (s *State) Hull(cfg settings.Movement) (mins, maxs mgl32.Vec3) {
	return cfg.Hull(s.Ducked)
}

// EyePosition returns the world position of the player's eyes.
func (s *State) EyePosition() mgl32.Vec3 {
	return s.Origin.Add(mgl32.Vec3{0, 0, s.ViewOffset})
}
