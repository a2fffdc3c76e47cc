package movement

import (
	"github.com/go-gl/mathgl/mgl32"
)

// stuckOffsets is the fixed order in which nudges are tried to free an embedded player, nearest
// first and upwards before downwards at each distance.
var stuckOffsets = func() []mgl32.Vec3 {
	var offsets []mgl32.Vec3
	for _, d := range []float32{0.125, 0.25, 0.5, 1, 2, 4, 8, 16} {
		offsets = append(offsets,
			mgl32.Vec3{0, 0, d},
			mgl32.Vec3{0, 0, -d},
			mgl32.Vec3{d, 0, 0},
			mgl32.Vec3{-d, 0, 0},
			mgl32.Vec3{0, d, 0},
			mgl32.Vec3{0, -d, 0},
		)
	}
	return offsets
}()

// checkStuck frees a player that starts the tick inside solid. It reports whether the player is
// still stuck, in which case nothing else runs this tick.
func (ctx *movementContext) checkStuck() bool {
	st := ctx.st
	tr := ctx.testPosition(st.Origin)
	if !tr.StartSolid {
		return false
	}

	base := st.Origin
	for _, offset := range stuckOffsets {
		if !ctx.testPosition(base.Add(offset)).StartSolid {
			st.Origin = base.Add(offset)
			ctx.res.Unstuck = true
			ctx.dbg.Notify(DebugModeCollision, true, "unstuck by %v", offset)
			return false
		}
	}

	ctx.dbg.Notify(DebugModeCollision, true, "stuck at %v in %v", st.Origin, tr.Entity)
	ctx.res.Stuck = true
	return true
}
