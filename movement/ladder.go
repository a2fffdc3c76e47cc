package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/surface"
)

// ladderMove looks for a ladder in front of the player and, if there is one, sets the climbing
// velocity for this tick. It reports whether the player is on a ladder.
func (ctx *movementContext) ladderMove() bool {
	st, cmd := ctx.st, ctx.cmd
	if st.Mode == ModeNoClip {
		return false
	}

	var wishdir mgl32.Vec3
	if st.Mode == ModeLadder {
		// Already climbing: keep probing into the ladder regardless of input.
		wishdir = st.LadderNormal.Mul(-1)
	} else {
		if cmd.ForwardMove == 0 && cmd.SideMove == 0 {
			return false
		}
		wishdir, _ = game.Normalize(ctx.forward.Mul(cmd.ForwardMove).Add(ctx.right.Mul(cmd.SideMove)))
	}

	end := st.Origin.Add(wishdir.Mul(game.LadderDistance))
	tr := ctx.traceHull(st.Origin, end)
	if tr.Fraction == 1 || !ctx.onLadder(tr) {
		return false
	}

	if st.Mode != ModeLadder {
		ctx.dbg.Notify(DebugModeLadder, true, "grabbed ladder (normal=%v)", tr.Plane.Normal)
	}
	st.Mode = ModeLadder
	st.LadderNormal = tr.Plane.Normal

	mins, _ := ctx.hull()
	floor := st.Origin
	floor[2] += mins.Z() - 1
	onFloor := ctx.sim.World.PointContents(floor)&collision.ContentsSolid != 0 || st.Grounded()

	climbSpeed := ctx.cfg.LadderClimbSpeed
	var forwardSpeed, rightSpeed float32
	switch {
	case cmd.ForwardMove > 0:
		forwardSpeed = climbSpeed
	case cmd.ForwardMove < 0:
		forwardSpeed = -climbSpeed
	}
	switch {
	case cmd.SideMove > 0:
		rightSpeed = climbSpeed
	case cmd.SideMove < 0:
		rightSpeed = -climbSpeed
	}

	if cmd.Buttons.Has(ButtonJump) {
		st.Mode = ModeWalk
		st.Velocity = tr.Plane.Normal.Mul(ctx.cfg.LadderJumpSpeed)
		ctx.dbg.Notify(DebugModeLadder, true, "jumped off ladder %v", st.Velocity)
		return true
	}

	if forwardSpeed == 0 && rightSpeed == 0 {
		st.Velocity = mgl32.Vec3{}
		return true
	}

	velocity := ctx.forward.Mul(forwardSpeed).Add(ctx.right.Mul(rightSpeed))
	n := tr.Plane.Normal

	// Split the wished velocity into a part into the ladder and a part along it. The part into
	// the ladder is turned into climbing along the ladder's up direction.
	perp, _ := game.Normalize(mgl32.Vec3{0, 0, 1}.Cross(n))
	normal := velocity.Dot(n)
	lateral := velocity.Sub(n.Mul(normal)).Mul(ctx.rules.LadderLateralMultiplier(cmd.Buttons.Has(ButtonDuck)))
	st.Velocity = lateral.Add(n.Cross(perp).Mul(-normal))

	// Pulling away from the ladder while standing at its foot walks off it.
	if onFloor && normal > 0 {
		st.Velocity = st.Velocity.Add(n.Mul(climbSpeed))
	}
	return true
}

// onLadder reports whether the trace hit something climbable. Perfectly flat surfaces never are.
func (ctx *movementContext) onLadder(tr collision.Trace) bool {
	if math32.Abs(tr.Plane.Normal.Z()) >= 1 {
		return false
	}
	return tr.Contents&collision.ContentsLadder != 0 || surface.Lookup(ctx.sim.Surfaces, tr.Surface).Climbable
}

// fullLadderMove is the tick for a player on a ladder.
func (ctx *movementContext) fullLadderMove() {
	st := ctx.st
	ctx.checkWater()
	ctx.handleJumpButton()

	st.Velocity = st.Velocity.Add(st.BaseVelocity)
	ctx.tryPlayerMove()
	st.Velocity = st.Velocity.Sub(st.BaseVelocity)
}
