package movement

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/pmove/assert"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/surface"
)

// Simulator advances player states by one command at a time. Its fields are read at the start
// of every tick and must not be changed while Simulate runs. A Simulator holds no per-player
// state, so one may be shared by any number of players as long as their States are not.
type Simulator struct {
	World collision.Query
	// Bodies resolves the velocity of entities the player stands on. If nil every entity is
	// treated as static.
	Bodies   collision.Bodies
	Surfaces surface.Provider
	Effects  event.Dispatcher
	Rules    Rules
	Settings settings.Movement
	Debug    *Debugger
}

// Simulate runs one tick of cmd against st, mutating st in place.
func (s *Simulator) Simulate(st *State, cmd Command) Result {
	assert.IsTrue(st != nil, "nil state passed to Simulate")
	assert.IsTrue(s.World != nil, "simulator has no collision world")

	s.Debug.Notify(DebugModeMovementSim, true, "BEGIN movement sim for command %d", cmd.Number)
	defer s.Debug.Notify(DebugModeMovementSim, true, "END movement sim for command %d", cmd.Number)

	ctx := newCtx(s, st, cmd)
	defer putCtx(ctx)

	ctx.playerMove()
	st.OldButtons = cmd.Buttons
	ctx.res.Mode = st.Mode
	return ctx.res
}

func (ctx *movementContext) playerMove() {
	st := ctx.st
	st.StepHeight = 0

	ctx.checkParameters()
	ctx.reduceTimers()
	ctx.forward, ctx.right, ctx.up = game.AngleVectors(ctx.cmd.ViewAngles)
	ctx.revalidateGround()

	if !st.Dead && (st.Mode == ModeWalk || st.Mode == ModeLadder) {
		if ctx.checkStuck() {
			return
		}
	}

	ctx.categorizePosition()
	ctx.oldWaterLevel = st.WaterLevel

	if !st.Grounded() {
		st.FallVelocity = -st.Velocity.Z()
	}

	ctx.updateStepSound()
	ctx.duck()

	if !st.Dead && (st.Mode == ModeWalk || st.Mode == ModeLadder) {
		if !ctx.ladderMove() && st.Mode == ModeLadder {
			st.Mode = ModeWalk
		}
	}

	ctx.dbg.Notify(DebugModeMovementSim, true, "mode=%v origin=%v velocity=%v ground=%v", st.Mode, st.Origin, st.Velocity, st.Ground)
	switch st.Mode {
	case ModeWalk:
		ctx.fullWalkMove()
	case ModeLadder:
		ctx.fullLadderMove()
	case ModeNoClip:
		ctx.fullNoClipMove(ctx.cfg.NoclipSpeed, ctx.cfg.NoclipAccelerate)
	case ModeObserver:
		ctx.fullObserverMove()
	case ModeIsometric:
		// Isometric movement is driven by the caller.
	}
}

// checkParameters sanitises the command and scales move input down to the speed limit.
func (ctx *movementContext) checkParameters() {
	st, cmd := ctx.st, &ctx.cmd
	for _, v := range []*float32{&cmd.ForwardMove, &cmd.SideMove, &cmd.UpMove, &cmd.ViewAngles[0], &cmd.ViewAngles[1], &cmd.ViewAngles[2]} {
		if math32.IsNaN(*v) || math32.IsInf(*v, 0) {
			*v = 0
		}
	}

	if cmd.MaxSpeed > 0 && cmd.MaxSpeed < ctx.cfg.MaxSpeed {
		ctx.maxSpeed = cmd.MaxSpeed
	}

	if st.Mode != ModeIsometric && st.Mode != ModeNoClip && st.Mode != ModeObserver {
		spd := cmd.ForwardMove*cmd.ForwardMove + cmd.SideMove*cmd.SideMove + cmd.UpMove*cmd.UpMove
		if spd != 0 && spd > ctx.maxSpeed*ctx.maxSpeed {
			ratio := ctx.maxSpeed / math32.Sqrt(spd)
			cmd.ForwardMove *= ratio
			cmd.SideMove *= ratio
			cmd.UpMove *= ratio
		}
	}

	if st.Frozen || st.Dead {
		cmd.ForwardMove, cmd.SideMove, cmd.UpMove = 0, 0, 0
	}
	if !st.Dead {
		// Pitch is limited so the view can never flip over.
		cmd.ViewAngles[0] = game.ClampFloat(cmd.ViewAngles[0], -89, 89)
		st.Angles = cmd.ViewAngles
	}
}

func (ctx *movementContext) reduceTimers() {
	st, dt := ctx.st, ctx.frameTime
	st.DuckElapsed = game.ClampFloat(st.DuckElapsed+dt, 0, game.DuckDuration)
	st.StepSoundTime = math32.Max(0, st.StepSoundTime-dt)
	st.SwimSoundTime = math32.Max(0, st.SwimSoundTime-dt)
}

// revalidateGround drops a ground handle whose entity no longer exists.
func (ctx *movementContext) revalidateGround() {
	st := ctx.st
	if !st.Grounded() {
		return
	}
	if _, ok := ctx.body(st.Ground); !ok {
		ctx.dbg.Notify(DebugModeGround, true, "ground entity %v is gone", st.Ground)
		ctx.setGround(nil)
	}
}
