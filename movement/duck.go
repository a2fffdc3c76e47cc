package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
)

// duck runs the crouch state machine. Holding duck lowers the view over TimeToDuck before the
// hull shrinks, releasing it raises the view over TimeToUnduck once there is room to stand.
func (ctx *movementContext) duck() {
	st := ctx.st
	held := ctx.cmd.Buttons.Has(ButtonDuck)
	pressed := held && !ctx.oldButtons.Has(ButtonDuck)
	released := !held && ctx.oldButtons.Has(ButtonDuck)
	inAir := !st.Grounded()

	if held {
		ctx.oldButtons |= ButtonDuck
	} else {
		ctx.oldButtons &^= ButtonDuck
	}

	if st.Dead {
		return
	}
	ctx.handleDuckingSpeedCrop()

	if held {
		if pressed && st.DuckState == DuckStanding {
			st.DuckState = DuckDucking
			st.DuckElapsed = 0
			ctx.dbg.Notify(DebugModeDuck, true, "duck started")
		}

		if st.DuckState == DuckUnducking {
			if st.Ducked {
				// The hull never grew, so just settle back down.
				st.DuckState = DuckDucked
				st.DuckElapsed = 0
				ctx.setDuckedEyeOffset(1)
				return
			}
			// Resume the duck from however far down the view still is.
			frac := 1 - st.DuckElapsed/game.TimeToUnduck
			st.DuckState = DuckDucking
			st.DuckElapsed = game.TimeToDuck * game.ClampFloat(frac, 0, 1)
		}

		if st.DuckState == DuckDucking {
			if st.DuckElapsed > game.TimeToDuck || inAir {
				ctx.finishDuck()
			} else {
				ctx.setDuckedEyeOffset(game.SimpleSpline(st.DuckElapsed / game.TimeToDuck))
			}
		}
		return
	}

	if st.DuckState == DuckStanding {
		return
	}
	if !ctx.cfg.AllowAutoMovement && !inAir && st.DuckState == DuckDucked {
		return
	}

	if released {
		switch st.DuckState {
		case DuckDucked:
			st.DuckElapsed = 0
		case DuckDucking:
			// Unduck from however far down the view already got.
			frac := st.DuckElapsed / game.TimeToDuck
			st.DuckElapsed = game.TimeToUnduck * (1 - frac)
		}
	}

	if !ctx.canUnduck() {
		if st.DuckElapsed != 0 {
			ctx.dbg.Notify(DebugModeDuck, true, "no room to stand, staying ducked")
			ctx.setDuckedEyeOffset(1)
			st.DuckElapsed = 0
			st.DuckState = DuckDucked
			st.Ducked = true
		}
		return
	}

	if st.DuckElapsed > game.TimeToUnduck || inAir {
		ctx.finishUnduck()
		return
	}
	ctx.setDuckedEyeOffset(game.SimpleSpline(1 - st.DuckElapsed/game.TimeToUnduck))
	st.DuckState = DuckUnducking
}

// handleDuckingSpeedCrop slows a ducked player on the ground, once per tick.
func (ctx *movementContext) handleDuckingSpeedCrop() {
	st := ctx.st
	if ctx.speedCropped || !st.Ducked || !st.Grounded() {
		return
	}
	m := ctx.rules.DuckSpeedMultiplier()
	ctx.cmd.ForwardMove *= m
	ctx.cmd.SideMove *= m
	ctx.cmd.UpMove *= m
	ctx.speedCropped = true
}

// duckHullDelta is how much shorter the ducked hull is than the standing one.
func (ctx *movementContext) duckHullDelta() mgl32.Vec3 {
	standMins, standMaxs := ctx.cfg.Hull(false)
	duckMins, duckMaxs := ctx.cfg.Hull(true)
	return standMaxs.Sub(standMins).Sub(duckMaxs.Sub(duckMins))
}

// unduckOrigin is where the origin goes when the hull grows back to standing size. In the air
// the feet drop so the head stays put.
func (ctx *movementContext) unduckOrigin() mgl32.Vec3 {
	st := ctx.st
	origin := st.Origin
	if !st.Ducked {
		return origin
	}
	if st.Grounded() {
		standMins, _ := ctx.cfg.Hull(false)
		duckMins, _ := ctx.cfg.Hull(true)
		return origin.Add(duckMins.Sub(standMins))
	}
	return origin.Sub(ctx.duckHullDelta())
}

// canUnduck reports whether the standing hull fits where it would end up.
func (ctx *movementContext) canUnduck() bool {
	st := ctx.st
	if !st.Ducked {
		return true
	}
	mins, maxs := ctx.cfg.Hull(false)
	tr := ctx.traceBox(st.Origin, ctx.unduckOrigin(), mins, maxs)
	return !tr.StartSolid && tr.Fraction == 1
}

func (ctx *movementContext) finishDuck() {
	st := ctx.st
	st.DuckState = DuckDucked
	if st.Ducked {
		ctx.setDuckedEyeOffset(1)
		return
	}

	st.Ducked = true
	st.ViewOffset = ctx.cfg.ViewOffset(true)
	if st.Grounded() {
		standMins, _ := ctx.cfg.Hull(false)
		duckMins, _ := ctx.cfg.Hull(true)
		st.Origin = st.Origin.Sub(duckMins.Sub(standMins))
	} else {
		// Pull the feet up so the head stays where it was.
		st.Origin = st.Origin.Add(ctx.duckHullDelta())
	}
	ctx.dbg.Notify(DebugModeDuck, true, "finished duck at %v", st.Origin)

	ctx.fixPlayerCrouchStuck(true)
	ctx.categorizePosition()
}

func (ctx *movementContext) finishUnduck() {
	st := ctx.st
	st.Origin = ctx.unduckOrigin()
	st.Ducked = false
	st.DuckState = DuckStanding
	st.DuckElapsed = 0
	st.ViewOffset = ctx.cfg.ViewOffset(false)
	ctx.dbg.Notify(DebugModeDuck, true, "finished unduck at %v", st.Origin)

	ctx.categorizePosition()
}

// setDuckedEyeOffset places the view between the standing and ducked eye heights, frac being
// how far down it is.
func (ctx *movementContext) setDuckedEyeOffset(frac float32) {
	standMins, _ := ctx.cfg.Hull(false)
	duckMins, _ := ctx.cfg.Hull(true)
	more := duckMins.Z() - standMins.Z()

	duckView := ctx.cfg.ViewOffset(true)
	standView := ctx.cfg.ViewOffset(false)
	ctx.st.ViewOffset = (duckView-more)*frac + standView*(1-frac)
}

// fixPlayerCrouchStuck nudges the player one unit at a time until the hull is free, giving up
// and restoring the origin after CrouchStuckSearch tries.
func (ctx *movementContext) fixPlayerCrouchStuck(upward bool) {
	st := ctx.st
	if !ctx.testPosition(st.Origin).StartSolid {
		return
	}

	dir := float32(-1)
	if upward {
		dir = 1
	}
	saved := st.Origin
	for i := 0; i < game.CrouchStuckSearch; i++ {
		st.Origin[2] += dir
		if !ctx.testPosition(st.Origin).StartSolid {
			ctx.dbg.Notify(DebugModeDuck, true, "crouch unstuck after %d units", i+1)
			return
		}
	}
	st.Origin = saved
}
