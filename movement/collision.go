package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
)

// clipVelocity removes the part of in that points into the plane with the given normal.
// An overbounce above 1 reflects some of it back out.
func clipVelocity(in, normal mgl32.Vec3, overbounce float32) mgl32.Vec3 {
	backoff := in.Dot(normal) * overbounce
	out := in.Sub(normal.Mul(backoff))

	// Float error can leave the result still pointing slightly into the plane.
	if adjust := out.Dot(normal); adjust < 0 {
		out = out.Sub(normal.Mul(adjust))
	}
	return out
}

// tryPlayerMove slides the player along its velocity for the rest of the tick, clipping against
// everything it runs into.
func (ctx *movementContext) tryPlayerMove() Blocked {
	st := ctx.st

	var (
		planes    [game.MaxClipPlanes]mgl32.Vec3
		numPlanes int
		maxPlanes int
		blocked   Blocked
		bumps     int
		reflected bool

		allFraction float32
		timeLeft    = ctx.frameTime

		original = st.Velocity
		primal   = st.Velocity
	)

	for bumpCount := 0; bumpCount < game.MaxBumps; bumpCount++ {
		if st.Velocity.Len() == 0 {
			break
		}
		bumps++

		end := st.Origin.Add(st.Velocity.Mul(timeLeft))
		tr := ctx.traceHull(st.Origin, end)
		allFraction += tr.Fraction

		if tr.AllSolid {
			ctx.dbg.Notify(DebugModeCollision, true, "tryPlayerMove: all solid at %v", st.Origin)
			st.Velocity = mgl32.Vec3{}
			blocked = BlockedAllSolid
			break
		}

		if tr.Fraction > 0 {
			if tr.Fraction == 1 {
				// Float drift can leave a full move ending inside something. Don't commit it.
				stuck := ctx.testPosition(tr.EndPos)
				if stuck.StartSolid || stuck.Fraction != 1 {
					ctx.dbg.Notify(DebugModeCollision, true, "tryPlayerMove: full move would end in solid")
					st.Velocity = mgl32.Vec3{}
					break
				}
			}

			st.Origin = tr.EndPos
			original = st.Velocity
			numPlanes = 0
		}

		if tr.Fraction == 1 {
			break
		}

		if tr.Plane.Normal.Z() > game.WalkableNormalZ {
			blocked |= BlockedFloor
		}
		if tr.Plane.Normal.Z() == 0 {
			blocked |= BlockedWall
		}

		timeLeft -= timeLeft * tr.Fraction

		if numPlanes >= game.MaxClipPlanes {
			st.Velocity = mgl32.Vec3{}
			break
		}
		planes[numPlanes] = tr.Plane.Normal
		numPlanes++
		maxPlanes = max(maxPlanes, numPlanes)

		if numPlanes == 1 && st.Mode == ModeWalk && !st.Grounded() {
			// First impact in the air. Floors stop the fall, walls may bounce.
			overbounce := float32(1)
			if planes[0].Z() <= game.WalkableNormalZ {
				overbounce = 1 + ctx.cfg.Bounce*(1-st.SurfaceFriction)
			}
			reflected = reflected || overbounce > 1
			st.Velocity = clipVelocity(original, planes[0], overbounce)
			original = st.Velocity
		} else {
			i := 0
			for ; i < numPlanes; i++ {
				st.Velocity = clipVelocity(original, planes[i], 1)
				j := 0
				for ; j < numPlanes; j++ {
					if j != i && st.Velocity.Dot(planes[j]) < 0 {
						break
					}
				}
				if j == numPlanes {
					break
				}
			}

			if i == numPlanes {
				// No single plane works. Slide along the crease of two, or stop in a corner.
				if numPlanes != 2 {
					st.Velocity = mgl32.Vec3{}
					break
				}
				dir, _ := game.Normalize(planes[0].Cross(planes[1]))
				st.Velocity = dir.Mul(dir.Dot(st.Velocity))
			}
		}

		// Never turn back against the original direction, which would oscillate in sloped corners.
		if st.Velocity.Dot(primal) <= 0 {
			st.Velocity = mgl32.Vec3{}
			break
		}
	}

	if allFraction == 0 {
		st.Velocity = mgl32.Vec3{}
	}

	// Slamming into something hard enough hurts.
	lateral := game.Length2D(primal) - game.Length2D(st.Velocity)
	switch {
	case lateral > game.MaxSafeFallSpeed*2:
		ctx.roughLandingEffects(1, false)
	case lateral > game.MaxSafeFallSpeed:
		ctx.roughLandingEffects(0.85, false)
	}

	ctx.res.Blocked |= blocked
	ctx.res.Bumps = max(ctx.res.Bumps, bumps)
	ctx.res.Planes = max(ctx.res.Planes, maxPlanes)
	ctx.res.Reflected = ctx.res.Reflected || reflected
	return blocked
}

// stepMove tries the move both as a slide and as a step up followed by a slide and a step down,
// keeping whichever got further.
func (ctx *movementContext) stepMove() {
	st := ctx.st
	pos, vel := st.Origin, st.Velocity

	ctx.tryPlayerMove()
	downPos, downVel := st.Origin, st.Velocity

	st.Origin, st.Velocity = pos, vel

	end := st.Origin
	if ctx.cfg.AllowAutoMovement {
		end[2] += ctx.cfg.StepSize + game.DistEpsilon
	}
	tr := ctx.traceHull(st.Origin, end)
	if !tr.StartSolid && !tr.AllSolid {
		st.Origin = tr.EndPos
	}

	ctx.tryPlayerMove()

	end = st.Origin
	if ctx.cfg.AllowAutoMovement {
		end[2] -= ctx.cfg.StepSize + game.DistEpsilon
	}
	tr = ctx.traceHull(st.Origin, end)

	// Stepped on to something unwalkable, or nothing at all.
	if tr.Plane.Normal.Z() < game.WalkableNormalZ {
		st.Origin, st.Velocity = downPos, downVel
		ctx.addStepHeight(pos)
		return
	}

	if !tr.StartSolid && !tr.AllSolid {
		st.Origin = tr.EndPos
	}
	upPos := st.Origin

	downDist := game.Vec3HzDistSqr(downPos.Sub(pos))
	upDist := game.Vec3HzDistSqr(upPos.Sub(pos))
	if downDist > upDist {
		st.Origin, st.Velocity = downPos, downVel
	} else {
		st.Velocity[2] = downVel.Z()
	}
	ctx.addStepHeight(pos)
}

func (ctx *movementContext) addStepHeight(from mgl32.Vec3) {
	if d := ctx.st.Origin.Z() - from.Z(); d > 0 {
		ctx.st.StepHeight += d
		ctx.dbg.Notify(DebugModeCollision, true, "stepped up %.4f", d)
	}
}
