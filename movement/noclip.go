package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
)

// fullNoClipMove flies the player through everything. A positive maxAccel accelerates towards the
// wished velocity with friction, zero moves at it directly, and a negative one moves at it for
// this tick only.
func (ctx *movementContext) fullNoClipMove(factor, maxAccel float32) {
	st, cmd := ctx.st, ctx.cmd
	maxSpeed := ctx.cfg.MaxSpeed * factor

	if cmd.Buttons.Has(ButtonSpeed) {
		factor /= 2
	}

	forward, _ := game.Normalize(ctx.forward)
	right, _ := game.Normalize(ctx.right)
	wishvel := forward.Mul(cmd.ForwardMove * factor).Add(right.Mul(cmd.SideMove * factor))
	wishvel[2] += cmd.UpMove * factor

	wishdir, wishspeed := game.Normalize(wishvel)
	if wishspeed > maxSpeed {
		wishvel = wishvel.Mul(maxSpeed / wishspeed)
		wishspeed = maxSpeed
	}

	if maxAccel > 0 {
		ctx.accelerate(wishdir, wishspeed, maxAccel)

		spd := st.Velocity.Len()
		if spd < 1 {
			st.Velocity = mgl32.Vec3{}
			return
		}

		control := math32.Max(spd, maxSpeed/4)
		drop := control * ctx.cfg.Friction * st.SurfaceFriction * ctx.frameTime
		st.Velocity = st.Velocity.Mul(math32.Max(spd-drop, 0) / spd)
	} else {
		st.Velocity = wishvel
	}

	st.Origin = st.Origin.Add(st.Velocity.Mul(ctx.frameTime))
	if maxAccel < 0 {
		st.Velocity = mgl32.Vec3{}
	}
}

// fullObserverMove roams a spectator around the map.
func (ctx *movementContext) fullObserverMove() {
	st, cmd := ctx.st, ctx.cmd
	st.SurfaceFriction = 1
	if ctx.cfg.SpecNoclip {
		ctx.fullNoClipMove(ctx.cfg.SpecSpeed, ctx.cfg.SpecAccelerate)
		return
	}

	factor := ctx.cfg.SpecSpeed
	if cmd.Buttons.Has(ButtonSpeed) {
		factor /= 2
	}

	forward, _ := game.Normalize(ctx.forward)
	right, _ := game.Normalize(ctx.right)
	wishvel := forward.Mul(cmd.ForwardMove * factor).Add(right.Mul(cmd.SideMove * factor))
	wishvel[2] += cmd.UpMove

	wishdir, wishspeed := game.Normalize(wishvel)
	if limit := ctx.cfg.MaxVelocity; wishspeed > limit {
		wishspeed = limit
	}

	ctx.accelerate(wishdir, wishspeed, ctx.cfg.SpecAccelerate)

	spd := st.Velocity.Len()
	if spd < 1 {
		st.Velocity = mgl32.Vec3{}
		return
	}
	drop := spd * ctx.cfg.Friction * ctx.frameTime
	st.Velocity = st.Velocity.Mul(math32.Max(spd-drop, 0) / spd)

	ctx.checkVelocity()
	ctx.tryPlayerMove()
}
