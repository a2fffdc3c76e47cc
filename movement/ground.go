package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/surface"
)

// categorizePosition works out the water level and what, if anything, the player stands on.
func (ctx *movementContext) categorizePosition() {
	st := ctx.st
	if st.Mode == ModeObserver {
		return
	}

	st.SurfaceFriction = 1
	ctx.checkWater()

	point := st.Origin.Sub(mgl32.Vec3{0, 0, game.GroundProbeDistance})
	zvel := st.Velocity.Z()
	movingUp := zvel > 0
	movingUpRapidly := zvel > game.NonJumpVelocity
	if movingUpRapidly && st.Grounded() {
		// Rising with a platform is not leaving it.
		if b, ok := ctx.body(st.Ground); ok {
			movingUpRapidly = zvel-b.Velocity.Z() > game.NonJumpVelocity
		}
	}

	if movingUpRapidly || (movingUp && st.Mode == ModeLadder) {
		ctx.dbg.Notify(DebugModeGround, st.Grounded(), "left ground moving up (vz=%.3f)", zvel)
		ctx.setGround(nil)
		return
	}

	mins, maxs := ctx.hull()
	tr := ctx.traceBox(st.Origin, point, mins, maxs)
	if tr.Entity.IsNil() || tr.Plane.Normal.Z() < game.WalkableNormalZ {
		tr = ctx.tryTouchGroundInQuadrants(st.Origin, point, tr)
		if tr.Entity.IsNil() || tr.Plane.Normal.Z() < game.WalkableNormalZ {
			ctx.setGround(nil)
			if st.Velocity.Z() > 0 && st.Mode != ModeNoClip {
				st.SurfaceFriction = game.AirborneRisingFriction
			}
			return
		}
	}
	ctx.setGround(&tr)
}

// tryTouchGroundInQuadrants retries the ground probe with each quarter of the hull, so a player
// straddling an edge or a steep crease can still find a walkable floor under one corner. The
// fraction and end position of the full hull probe are kept.
func (ctx *movementContext) tryTouchGroundInQuadrants(start, end mgl32.Vec3, full collision.Trace) collision.Trace {
	mins, maxs := ctx.hull()
	quadrants := [4][2]mgl32.Vec3{
		{mins, {math32.Min(0, maxs.X()), math32.Min(0, maxs.Y()), maxs.Z()}},
		{{math32.Max(0, mins.X()), math32.Max(0, mins.Y()), mins.Z()}, maxs},
		{{mins.X(), math32.Max(0, mins.Y()), mins.Z()}, {math32.Min(0, maxs.X()), maxs.Y(), maxs.Z()}},
		{{math32.Max(0, mins.X()), mins.Y(), mins.Z()}, {maxs.X(), math32.Min(0, maxs.Y()), maxs.Z()}},
	}

	var tr collision.Trace
	for _, q := range quadrants {
		tr = ctx.traceBox(start, end, q[0], q[1])
		if !tr.Entity.IsNil() && tr.Plane.Normal.Z() >= game.WalkableNormalZ {
			break
		}
	}
	tr.Fraction = full.Fraction
	tr.EndPos = full.EndPos
	return tr
}

// setGround changes the ground entity. While grounded, the horizontal base velocity is whatever
// the ground carries the player with. Leaving the ground turns that carry into the player's own
// velocity, and landing on a moving body makes the player's velocity relative to it, so the net
// motion is continuous across both.
func (ctx *movementContext) setGround(tr *collision.Trace) {
	st := ctx.st
	newGround := entity.Nil
	if tr != nil {
		newGround = tr.Entity
	}

	oldGround := st.Ground
	if !oldGround.IsNil() && newGround.IsNil() {
		st.Velocity[0] += st.BaseVelocity.X()
		st.Velocity[1] += st.BaseVelocity.Y()
		st.BaseVelocity = mgl32.Vec3{}
		if b, ok := ctx.body(oldGround); ok {
			st.BaseVelocity[2] = b.Velocity.Z()
		}
	} else if oldGround.IsNil() && !newGround.IsNil() {
		if b, ok := ctx.body(newGround); ok {
			st.Velocity[0] -= b.Velocity.X()
			st.Velocity[1] -= b.Velocity.Y()
			st.BaseVelocity[2] = b.Velocity.Z()
		}
	}

	if oldGround != newGround {
		ctx.dbg.Notify(DebugModeGround, true, "ground %v -> %v", oldGround, newGround)
	}
	st.Ground = newGround
	if newGround.IsNil() {
		return
	}

	ctx.categorizeGroundSurface(*tr)
	var carry mgl32.Vec3
	if b, ok := ctx.body(newGround); ok {
		carry = b.Velocity.Add(b.Conveyor)
	}
	st.BaseVelocity[0], st.BaseVelocity[1] = carry.X(), carry.Y()

	// Standing on something ends any water jump.
	st.WaterJumpTime = 0
	st.Velocity[2] = 0
}

func (ctx *movementContext) categorizeGroundSurface(tr collision.Trace) {
	st := ctx.st
	sample := surface.Lookup(ctx.sim.Surfaces, tr.Surface)
	st.SurfaceFriction = math32.Min(1, sample.Friction*game.SurfaceFrictionScale)

	old := st.SurfaceMaterial
	st.Surface = tr.Surface
	st.SurfaceMaterial = sample.Material
	if old != sample.Material {
		ctx.dispatch(event.SurfaceChangedEvent{
			NopEvent: ctx.nopEvent(),
			Surface:  tr.Surface,
			Old:      old,
			New:      sample.Material,
		})
	}
}

// stayOnGround snaps the player down on to the floor when walking down slopes and stairs.
func (ctx *movementContext) stayOnGround() {
	st := ctx.st
	start := st.Origin.Add(mgl32.Vec3{0, 0, 2})
	end := st.Origin.Sub(mgl32.Vec3{0, 0, ctx.cfg.StepSize})

	// Go as high as possible first, so the trace down starts outside of anything touching.
	tr := ctx.traceHull(st.Origin, start)
	start = tr.EndPos

	tr = ctx.traceHull(start, end)
	if tr.Fraction > 0 && tr.Fraction < 1 && !tr.StartSolid && tr.Plane.Normal.Z() >= game.WalkableNormalZ {
		if delta := math32.Abs(st.Origin.Z() - tr.EndPos.Z()); delta > 0.5*game.CoordResolution {
			ctx.dbg.Notify(DebugModeGround, true, "snapped to ground (delta=%.4f)", delta)
			st.Origin = tr.EndPos
		}
	}
}

// checkWater samples the contents at the feet, waist and eyes and updates the water level.
// It reports whether the player is at least waist deep.
func (ctx *movementContext) checkWater() bool {
	st := ctx.st
	mins, maxs := ctx.hull()

	point := st.Origin.Add(mins.Add(maxs).Mul(0.5))
	point[2] = st.Origin.Z() + mins.Z() + 1

	st.WaterLevel = WaterLevelNotInWater
	st.WaterType = collision.ContentsEmpty

	if cont := ctx.sim.World.PointContents(point); cont&collision.MaskWater != 0 {
		st.WaterType = cont & collision.MaskWater
		st.WaterLevel = WaterLevelFeet

		point[2] = st.Origin.Z() + (mins.Z()+maxs.Z())*0.5
		if ctx.sim.World.PointContents(point)&collision.MaskWater != 0 {
			st.WaterLevel = WaterLevelWaist

			if ctx.sim.World.PointContents(st.EyePosition())&collision.MaskWater != 0 {
				st.WaterLevel = WaterLevelEyes
			}
		}
	}
	return st.WaterLevel > WaterLevelFeet
}

// checkSplash raises a splash when the player crosses the water surface this tick.
func (ctx *movementContext) checkSplash() {
	st := ctx.st
	entering := ctx.oldWaterLevel == WaterLevelNotInWater && st.WaterLevel != WaterLevelNotInWater
	leaving := ctx.oldWaterLevel != WaterLevelNotInWater && st.WaterLevel == WaterLevelNotInWater
	if !entering && !leaving {
		return
	}
	ctx.dbg.Notify(DebugModeWater, true, "splash (entering=%t level=%d)", entering, st.WaterLevel)
	ctx.dispatch(event.SplashEvent{
		NopEvent:   ctx.nopEvent(),
		Origin:     st.Origin,
		Entering:   entering,
		WaterLevel: uint8(st.WaterLevel),
	})
}

// checkFalling raises landing effects when the player hits the ground after a fall.
func (ctx *movementContext) checkFalling() {
	st := ctx.st
	if !st.Grounded() || st.FallVelocity <= 0 {
		return
	}

	if !st.Dead && st.FallVelocity >= game.FallPunchThreshold {
		vol := float32(0.5)
		if st.WaterLevel == WaterLevelNotInWater {
			if b, ok := ctx.body(st.Ground); ok {
				if b.Floating {
					st.FallVelocity -= game.LandOnFloatingObject
				}
				// A platform moving down softens the landing.
				if b.Velocity.Z() < 0 {
					st.FallVelocity = math32.Max(0.1, st.FallVelocity+b.Velocity.Z())
				}
			}

			switch {
			case st.FallVelocity > game.MaxSafeFallSpeed:
				vol = 1
			case st.FallVelocity > game.MaxSafeFallSpeed/2:
				vol = 0.85
			case st.FallVelocity < game.MinBounceSpeed:
				vol = 0
			}
		}
		ctx.roughLandingEffects(vol, true)
	}

	ctx.dbg.Notify(DebugModeGround, true, "landed (fall=%.3f)", st.FallVelocity)
	ctx.res.Landed = true
	ctx.res.FallSpeed = st.FallVelocity
	st.FallVelocity = 0
}

func (ctx *movementContext) roughLandingEffects(vol float32, landing bool) {
	if vol <= 0 {
		return
	}
	ctx.dispatch(event.ImpactEvent{NopEvent: ctx.nopEvent(), Intensity: vol, Landing: landing})
}
