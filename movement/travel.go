package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/game"
)

// fullWalkMove is the tick for a player on foot, in the air or swimming.
func (ctx *movementContext) fullWalkMove() {
	st := ctx.st
	if !ctx.checkWater() {
		ctx.startGravity()
	}

	if st.WaterJumping() {
		ctx.waterJump()
		ctx.tryPlayerMove()
		ctx.checkWater()
		ctx.checkSplash()
		return
	}

	if st.WaterLevel >= WaterLevelWaist {
		if st.WaterLevel == WaterLevelWaist {
			ctx.checkWaterJump()
		}
		// Falling again cancels a water jump.
		if st.Velocity.Z() < 0 && st.WaterJumping() {
			st.WaterJumpTime = 0
		}

		ctx.handleJumpButton()
		ctx.waterMove()
		ctx.categorizePosition()
		if st.Grounded() {
			st.Velocity[2] = 0
		}
	} else {
		ctx.handleJumpButton()
		if st.Grounded() {
			st.Velocity[2] = 0
			ctx.friction()
		}

		ctx.checkVelocity()
		if st.Grounded() {
			ctx.walkMove()
		} else {
			ctx.airMove()
		}

		ctx.categorizePosition()
		ctx.checkVelocity()
		if !ctx.checkWater() {
			ctx.finishGravity()
		}
		if st.Grounded() {
			st.Velocity[2] = 0
		}
		ctx.checkFalling()
	}
	ctx.checkSplash()
}

func (ctx *movementContext) handleJumpButton() {
	if ctx.cmd.Buttons.Has(ButtonJump) {
		ctx.checkJumpButton()
	} else {
		ctx.oldButtons &^= ButtonJump
	}
}

// friction slows a grounded player down.
func (ctx *movementContext) friction() {
	st := ctx.st
	if st.WaterJumping() {
		return
	}

	speed := st.Velocity.Len()
	if speed < 0.1 {
		return
	}

	var drop float32
	if st.Grounded() {
		friction := ctx.cfg.Friction * st.SurfaceFriction
		// Below the stop speed the player is slowed as if moving at it, so slow players come to a
		// stop quickly instead of sliding forever.
		control := math32.Max(speed, ctx.cfg.StopSpeed)
		drop = control * friction * ctx.frameTime
	}

	newspeed := math32.Max(speed-drop, 0)
	if newspeed != speed {
		st.Velocity = st.Velocity.Mul(newspeed / speed)
	}
}

// accelerate adds velocity along wishdir without letting the speed along it pass wishspeed.
func (ctx *movementContext) accelerate(wishdir mgl32.Vec3, wishspeed, accel float32) {
	st := ctx.st
	if st.Dead || st.WaterJumping() {
		return
	}

	addspeed := wishspeed - st.Velocity.Dot(wishdir)
	if addspeed <= 0 {
		return
	}
	accelspeed := math32.Min(accel*ctx.frameTime*wishspeed*st.SurfaceFriction, addspeed)
	st.Velocity = st.Velocity.Add(wishdir.Mul(accelspeed))
}

// airAccelerate is accelerate with the wish speed capped for the projection only, which is what
// lets players gain speed by turning in the air.
func (ctx *movementContext) airAccelerate(wishdir mgl32.Vec3, wishspeed, accel float32) {
	st := ctx.st
	if st.Dead || st.WaterJumping() {
		return
	}

	wishspd := math32.Min(wishspeed, ctx.cfg.AirSpeedCap)
	addspeed := wishspd - st.Velocity.Dot(wishdir)
	if addspeed <= 0 {
		return
	}
	accelspeed := math32.Min(accel*wishspeed*ctx.frameTime*st.SurfaceFriction, addspeed)
	st.Velocity = st.Velocity.Add(wishdir.Mul(accelspeed))
}

// walkMove moves a grounded player, stepping up stairs and sticking to the floor.
func (ctx *movementContext) walkMove() {
	st := ctx.st
	oldGround := st.Ground

	wishdir, wishspeed := ctx.wishVelocity()

	st.Velocity[2] = 0
	ctx.accelerate(wishdir, wishspeed, ctx.cfg.Accelerate)
	st.Velocity[2] = 0

	st.Velocity = st.Velocity.Add(st.BaseVelocity)
	if spd := st.Velocity.Len(); spd < 1 {
		st.Velocity = st.BaseVelocity.Mul(-1)
		ctx.dbg.Notify(DebugModeMovementSim, true, "walkMove: too slow to move (speed=%.4f)", spd)
		return
	}

	dest := st.Origin.Add(st.Velocity.Mul(ctx.frameTime))
	dest[2] = st.Origin.Z()

	tr := ctx.traceHull(st.Origin, dest)
	if tr.Fraction == 1 {
		st.Origin = tr.EndPos
		st.Velocity = st.Velocity.Sub(st.BaseVelocity)
		ctx.stayOnGround()
		return
	}

	// Blocked without having started on the ground, so this is not a step.
	if oldGround.IsNil() && st.WaterLevel == WaterLevelNotInWater {
		st.Velocity = st.Velocity.Sub(st.BaseVelocity)
		return
	}
	if st.WaterJumping() {
		st.Velocity = st.Velocity.Sub(st.BaseVelocity)
		return
	}

	ctx.stepMove()
	st.Velocity = st.Velocity.Sub(st.BaseVelocity)
	ctx.stayOnGround()
}

// airMove moves an airborne player.
func (ctx *movementContext) airMove() {
	st := ctx.st
	wishdir, wishspeed := ctx.wishVelocity()
	ctx.airAccelerate(wishdir, wishspeed, ctx.cfg.AirAccelerate)

	st.Velocity = st.Velocity.Add(st.BaseVelocity)
	ctx.tryPlayerMove()
	st.Velocity = st.Velocity.Sub(st.BaseVelocity)
}

// updateStepSound raises footsteps at a cadence set by the player's speed.
func (ctx *movementContext) updateStepSound() {
	st := ctx.st
	if st.StepSoundTime > 0 || st.Dead {
		return
	}

	onLadder := st.Mode == ModeLadder
	if !onLadder && (st.Mode != ModeWalk || !st.Grounded() || st.WaterLevel >= WaterLevelWaist) {
		return
	}

	speed := st.Velocity.Len()
	if speed < game.StepSoundWalkSpeed {
		return
	}

	interval, vol := game.StepSoundWalkInterval, float32(0.2)
	switch {
	case onLadder:
		interval, vol = game.StepSoundLadderInterval, 0.5
	case st.Ducked:
		interval, vol = game.StepSoundDuckInterval, 0.2*0.65
	case speed >= game.StepSoundRunSpeed:
		interval, vol = game.StepSoundRunInterval, 0.5
	}
	st.StepSoundTime = interval

	ctx.dispatch(event.FootstepEvent{
		NopEvent: ctx.nopEvent(),
		Origin:   st.Origin,
		Surface:  st.Surface,
		Material: st.SurfaceMaterial,
		Volume:   vol,
	})
}
