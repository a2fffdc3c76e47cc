package movement

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/settings"
)

var ctxPool = sync.Pool{
	New: func() any {
		return &movementContext{}
	},
}

func newCtx(sim *Simulator, st *State, cmd Command) *movementContext {
	ctx := ctxPool.Get().(*movementContext)
	ctx.sim = sim
	ctx.st = st
	ctx.cmd = cmd
	ctx.cfg = sim.Settings
	ctx.rules = sim.Rules
	if ctx.rules == nil {
		ctx.rules = BaseRules{}
	}
	ctx.fx = sim.Effects
	if ctx.fx == nil {
		ctx.fx = event.Nop{}
	}
	ctx.dbg = sim.Debug
	ctx.frameTime = cmd.FrameTime
	if !(ctx.frameTime > 0) || math32.IsInf(ctx.frameTime, 1) {
		ctx.frameTime = 0
	}
	ctx.maxSpeed = ctx.cfg.MaxSpeed
	ctx.oldButtons = st.OldButtons
	return ctx
}

func putCtx(ctx *movementContext) {
	ctx.reset()
	ctxPool.Put(ctx)
}

func (ctx *movementContext) reset() {
	ctx.sim = nil
	ctx.st = nil
	ctx.cmd = Command{}
	ctx.cfg = settings.Movement{}
	ctx.rules = nil
	ctx.fx = nil
	ctx.dbg = nil
	ctx.frameTime = 0
	ctx.maxSpeed = 0
	ctx.forward, ctx.right, ctx.up = mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}
	ctx.oldWaterLevel = 0
	ctx.oldButtons = 0
	ctx.speedCropped = false
	ctx.res = Result{}
}
