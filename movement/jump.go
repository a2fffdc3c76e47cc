package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/surface"
)

// checkJumpButton handles a held jump button: swimming up in water, or a jump off the ground.
// It reports whether a jump off the ground happened.
func (ctx *movementContext) checkJumpButton() bool {
	st := ctx.st
	if st.Dead {
		ctx.oldButtons |= ButtonJump
		return false
	}

	if st.WaterJumping() {
		st.WaterJumpTime = math32.Max(0, st.WaterJumpTime-ctx.frameTime)
		return false
	}

	if st.WaterLevel >= WaterLevelWaist {
		ctx.setGround(nil)
		switch {
		case st.WaterType&collision.ContentsWater != 0:
			st.Velocity[2] = game.WaterSwimUpSpeed
		case st.WaterType&collision.ContentsSlime != 0:
			st.Velocity[2] = game.SlimeSwimUpSpeed
		}

		if st.SwimSoundTime <= 0 {
			st.SwimSoundTime = game.SwimSoundInterval
			ctx.dispatch(event.SwimEvent{NopEvent: ctx.nopEvent(), Origin: st.Origin})
		}
		return false
	}

	if !st.Grounded() {
		ctx.oldButtons |= ButtonJump
		return false
	}
	if st.SlowMovement {
		return false
	}
	// Don't pogo stick: the button has to be released between jumps.
	if ctx.oldButtons.Has(ButtonJump) {
		return false
	}
	if st.DuckState == DuckUnducking {
		ctx.dbg.Notify(DebugModeDuck, true, "jump rejected during unduck")
		return false
	}

	if st.DuckState == DuckDucking && ctx.rules.JumpFinishesDuck() {
		ctx.finishDuck()
	}

	ctx.setGround(nil)
	ctx.dispatch(event.FootstepEvent{
		NopEvent: ctx.nopEvent(),
		Origin:   st.Origin,
		Surface:  st.Surface,
		Material: st.SurfaceMaterial,
		Volume:   1,
		Jump:     true,
	})

	factor := surface.Lookup(ctx.sim.Surfaces, st.Surface).JumpFactor
	if factor == 0 {
		factor = 1
	}
	impulse := factor * math32.Sqrt(2*ctx.cfg.Gravity*ctx.cfg.JumpHeight)

	startz := st.Velocity.Z()
	if st.Ducked || st.DuckState == DuckDucking {
		st.Velocity[2] += impulse
	} else {
		st.Velocity[2] = impulse
	}

	if bonus := ctx.rules.JumpBonus(JumpInput{
		ForwardMove:     ctx.cmd.ForwardMove,
		MaxSpeed:        ctx.maxSpeed,
		HorizontalSpeed: game.Length2D(st.Velocity),
		Sprinting:       ctx.cmd.Buttons.Has(ButtonSpeed),
		Ducked:          st.Ducked,
	}); bonus != 0 {
		forward, _ := game.Normalize(mgl32.Vec3{ctx.forward.X(), ctx.forward.Y(), 0})
		st.Velocity = st.Velocity.Add(forward.Mul(bonus))
	}

	ctx.finishGravity()
	ctx.dbg.Notify(DebugModeMovementSim, true, "jumped (vz %.3f -> %.3f)", startz, st.Velocity.Z())

	st.StepHeight += game.JumpStepHeight
	ctx.oldButtons |= ButtonJump
	ctx.res.Jumped = true
	return true
}
