package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
)

// waterMove swims the player. Movement follows the full view direction, and the player slowly
// sinks when there is no input.
func (ctx *movementContext) waterMove() {
	st, cmd := ctx.st, ctx.cmd

	wishvel := ctx.forward.Mul(cmd.ForwardMove).Add(ctx.right.Mul(cmd.SideMove))
	switch {
	case cmd.Buttons.Has(ButtonJump):
		wishvel[2] += ctx.maxSpeed
	case cmd.ForwardMove == 0 && cmd.SideMove == 0 && cmd.UpMove == 0:
		wishvel[2] -= game.WaterSinkSpeed
	default:
		// Looking up while swimming forward lifts the player.
		upward := game.ClampFloat(cmd.ForwardMove*ctx.forward.Z()*2, 0, ctx.maxSpeed)
		wishvel[2] += cmd.UpMove + upward
	}

	wishdir, wishspeed := game.Normalize(wishvel)
	if wishspeed > ctx.maxSpeed {
		wishspeed = ctx.maxSpeed
	}
	wishspeed *= game.WaterWishDamping

	speed := st.Velocity.Len()
	var newspeed float32
	if speed != 0 {
		newspeed = speed - ctx.frameTime*speed*ctx.cfg.Friction*st.SurfaceFriction
		if newspeed < game.WaterStopSpeed {
			newspeed = 0
		}
		st.Velocity = st.Velocity.Mul(newspeed / speed)
	}

	if wishspeed >= game.WaterStopSpeed {
		if addspeed := wishspeed - newspeed; addspeed > 0 {
			accelspeed := ctx.cfg.WaterAccelerate * wishspeed * ctx.frameTime * st.SurfaceFriction
			if accelspeed > addspeed {
				accelspeed = addspeed
			}
			st.Velocity = st.Velocity.Add(wishdir.Mul(accelspeed))
		}
	}
	ctx.dbg.Notify(DebugModeWater, true, "waterMove: wishspeed=%.3f velocity=%v", wishspeed, st.Velocity)

	st.Velocity = st.Velocity.Add(st.BaseVelocity)
	dest := st.Origin.Add(st.Velocity.Mul(ctx.frameTime))

	tr := ctx.traceHull(st.Origin, dest)
	if tr.Fraction == 1 {
		// Press down from a step above, so swimming into a ledge climbs it.
		start := dest
		if ctx.cfg.AllowAutoMovement {
			start[2] += ctx.cfg.StepSize + 1
		}
		tr = ctx.traceHull(start, dest)
		if !tr.StartSolid && !tr.AllSolid {
			st.StepHeight += tr.EndPos.Z() - st.Origin.Z()
			st.Origin = tr.EndPos
			st.Velocity = st.Velocity.Sub(st.BaseVelocity)
			return
		}
		ctx.tryPlayerMove()
	} else if !st.Grounded() {
		ctx.tryPlayerMove()
	} else {
		ctx.stepMove()
	}
	st.Velocity = st.Velocity.Sub(st.BaseVelocity)
}

// checkWaterJump starts a water jump when the player swims at a wall with a walkable ledge just
// above the surface.
func (ctx *movementContext) checkWaterJump() {
	st := ctx.st
	if st.WaterJumping() || st.Velocity.Z() < game.WaterJumpMinVerticalSpeed {
		return
	}

	flatvel, curspeed := game.Normalize(mgl32.Vec3{st.Velocity.X(), st.Velocity.Y(), 0})
	flatforward, _ := game.Normalize(mgl32.Vec3{ctx.forward.X(), ctx.forward.Y(), 0})

	// Must be moving towards the wall, if moving at all.
	if curspeed != 0 && flatvel.Dot(flatforward) < 0 {
		return
	}

	mins, maxs := ctx.hull()
	start := st.Origin.Add(mins.Add(maxs).Mul(0.5))
	end := start.Add(flatforward.Mul(game.WaterJumpProbe))

	tr := ctx.traceHull(start, end)
	if tr.Fraction == 1 {
		return
	}

	// Something is in front. See if there is room above it to climb out.
	start[2] = st.Origin.Z() + st.ViewOffset + game.WaterJumpHeight
	end = start.Add(flatforward.Mul(game.WaterJumpProbe))
	st.WaterJumpVel = tr.Plane.Normal.Mul(-game.WaterJumpWallPush)

	tr = ctx.traceHull(start, end)
	if tr.Fraction != 1 {
		return
	}

	start = end
	end[2] -= game.WaterJumpLandProbe
	tr = ctx.traceHull(start, end)
	if tr.Fraction < 1 && tr.Plane.Normal.Z() >= game.WalkableNormalZ {
		ctx.dbg.Notify(DebugModeWater, true, "water jump started (push=%v)", st.WaterJumpVel)
		st.Velocity[2] = game.WaterJumpPush
		ctx.oldButtons |= ButtonJump
		st.WaterJumpTime = game.WaterJumpDuration
	}
}

// waterJump keeps pushing the player over the ledge until the timer runs out or the player
// leaves the water.
func (ctx *movementContext) waterJump() {
	st := ctx.st
	if st.WaterJumpTime > game.WaterJumpMaxDuration {
		st.WaterJumpTime = game.WaterJumpMaxDuration
	}
	if st.WaterJumpTime == 0 {
		return
	}

	st.WaterJumpTime -= ctx.frameTime
	if st.WaterJumpTime <= 0 || st.WaterLevel == WaterLevelNotInWater {
		st.WaterJumpTime = 0
	}

	st.Velocity[0] = st.WaterJumpVel.X()
	st.Velocity[1] = st.WaterJumpVel.Y()
}
