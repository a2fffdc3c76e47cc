package movement

// Blocked describes what stopped a slide.
type Blocked uint8

const (
	BlockedFloor Blocked = 1 << iota
	BlockedWall
	// BlockedAllSolid means the hull was entirely inside solid and could not move.
	BlockedAllSolid
)

// Result summarises one tick of movement.
type Result struct {
	Mode    Mode
	Blocked Blocked
	// Bumps is the largest number of sweeps a single slide used this tick.
	Bumps int
	// Planes is the largest number of clip planes a single slide collected this tick.
	Planes int
	// Reflected is set when the first airborne impact bounced the player off a wall.
	Reflected bool

	Jumped bool
	Landed bool
	// FallSpeed is the downward speed the player landed with.
	FallSpeed float32

	// Unstuck is set when the player started embedded and was nudged free.
	Unstuck bool
	// Stuck is set when the player started embedded and no free spot was found. Nothing else
	// ran that tick.
	Stuck bool
}
