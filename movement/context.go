package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/settings"
)

type movementContext struct {
	sim   *Simulator
	st    *State
	cmd   Command
	cfg   settings.Movement
	rules Rules
	fx    event.Dispatcher
	dbg   *Debugger

	frameTime float32
	maxSpeed  float32

	forward, right, up mgl32.Vec3

	oldWaterLevel WaterLevel
	// oldButtons tracks which buttons have already been acted on, so held buttons only
	// trigger once.
	oldButtons   Buttons
	speedCropped bool

	res Result
}

func (ctx *movementContext) hull() (mins, maxs mgl32.Vec3) {
	return ctx.cfg.Hull(ctx.st.Ducked)
}

// traceHull sweeps the current hull from start to end.
func (ctx *movementContext) traceHull(start, end mgl32.Vec3) collision.Trace {
	mins, maxs := ctx.hull()
	return ctx.traceBox(start, end, mins, maxs)
}

func (ctx *movementContext) traceBox(start, end, mins, maxs mgl32.Vec3) collision.Trace {
	tr := ctx.sim.World.Sweep(start, end, mins, maxs, collision.MaskPlayerSolid, ctx.st.Self, collision.GroupPlayerMovement)
	ctx.dbg.Notify(DebugModeCollision, tr.Hit(), "sweep %v -> %v hit %v (fraction=%.4f normal=%v startsolid=%t)", start, end, tr.Entity, tr.Fraction, tr.Plane.Normal, tr.StartSolid)
	return tr
}

// testPosition reports the trace of a zero length sweep at origin.
func (ctx *movementContext) testPosition(origin mgl32.Vec3) collision.Trace {
	return ctx.traceHull(origin, origin)
}

// body resolves h to a body. The world, and every entity when no body source is present,
// resolve to a static body.
func (ctx *movementContext) body(h entity.Handle) (collision.Body, bool) {
	if h.IsNil() {
		return collision.Body{}, false
	}
	if h.IsWorld() || ctx.sim.Bodies == nil {
		return collision.Body{}, true
	}
	return ctx.sim.Bodies.Body(h)
}

func (ctx *movementContext) dispatch(ev event.Event) {
	ctx.fx.Dispatch(ev)
}

func (ctx *movementContext) nopEvent() event.NopEvent {
	return event.NopEvent{EvTick: ctx.cmd.Number}
}

func (ctx *movementContext) gravityScale() float32 {
	if ctx.st.GravityScale == 0 {
		return 1
	}
	return ctx.st.GravityScale
}

// startGravity applies the first half of this tick's gravity and folds vertical base velocity
// into the player's own.
func (ctx *movementContext) startGravity() {
	st := ctx.st
	st.Velocity[2] -= ctx.gravityScale() * ctx.cfg.Gravity * 0.5 * ctx.frameTime
	st.Velocity[2] += st.BaseVelocity.Z() * ctx.frameTime
	st.BaseVelocity[2] = 0
	ctx.checkVelocity()
}

// finishGravity applies the second half of this tick's gravity.
func (ctx *movementContext) finishGravity() {
	if ctx.st.WaterJumping() {
		return
	}
	ctx.st.Velocity[2] -= ctx.gravityScale() * ctx.cfg.Gravity * 0.5 * ctx.frameTime
	ctx.checkVelocity()
}

// checkVelocity replaces NaN components with zero and clamps velocity to the configured limit.
func (ctx *movementContext) checkVelocity() {
	st := ctx.st
	limit := ctx.cfg.MaxVelocity
	for i := 0; i < 3; i++ {
		if math32.IsNaN(st.Velocity[i]) {
			ctx.dbg.Notify(DebugModeMovementSim, true, "velocity[%d] was NaN", i)
			st.Velocity[i] = 0
		}
		if math32.IsNaN(st.Origin[i]) {
			ctx.dbg.Notify(DebugModeMovementSim, true, "origin[%d] was NaN", i)
			st.Origin[i] = 0
		}
		if st.Velocity[i] > limit {
			st.Velocity[i] = limit
		} else if st.Velocity[i] < -limit {
			st.Velocity[i] = -limit
		}
	}
}

// flatMoveVectors returns the forward and right vectors with their vertical part removed.
func (ctx *movementContext) flatMoveVectors() (forward, right mgl32.Vec3) {
	forward, right = ctx.forward, ctx.right
	forward[2], right[2] = 0, 0
	forward, _ = game.Normalize(forward)
	right, _ = game.Normalize(right)
	return
}

// wishVelocity builds the clamped horizontal wish direction and speed from move input.
func (ctx *movementContext) wishVelocity() (wishdir mgl32.Vec3, wishspeed float32) {
	forward, right := ctx.flatMoveVectors()
	wishvel := forward.Mul(ctx.cmd.ForwardMove).Add(right.Mul(ctx.cmd.SideMove))
	wishvel[2] = 0

	wishdir, wishspeed = game.Normalize(wishvel)
	if wishspeed != 0 && wishspeed > ctx.maxSpeed {
		wishspeed = ctx.maxSpeed
	}
	return
}
