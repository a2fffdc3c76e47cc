package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AngleVectors returns the forward, right and up vectors of the given (pitch, yaw, roll) angles
// in degrees.
func AngleVectors(angles mgl32.Vec3) (forward, right, up mgl32.Vec3) {
	sp, cp := math32.Sincos(mgl32.DegToRad(angles[0]))
	sy, cy := math32.Sincos(mgl32.DegToRad(angles[1]))
	sr, cr := math32.Sincos(mgl32.DegToRad(angles[2]))

	forward = mgl32.Vec3{cp * cy, cp * sy, -sp}
	right = mgl32.Vec3{
		-1*sr*sp*cy + -1*cr*-sy,
		-1*sr*sp*sy + -1*cr*cy,
		-1 * sr * cp,
	}
	up = mgl32.Vec3{
		cr*sp*cy + -sr*-sy,
		cr*sp*sy + -sr*cy,
		cr * cp,
	}
	return
}

// SimpleSpline eases v in [0, 1] with 3v^2 - 2v^3.
func SimpleSpline(v float32) float32 {
	sq := v * v
	return 3*sq - 2*sq*v
}

// Normalize returns the unit vector of v and its original length. A zero vector is returned
// unchanged with a length of zero.
func Normalize(v mgl32.Vec3) (mgl32.Vec3, float32) {
	l := v.Len()
	if l == 0 {
		return v, 0
	}
	return v.Mul(1 / l), l
}

// Length2D returns the horizontal length of the vector.
func Length2D(v mgl32.Vec3) float32 {
	return math32.Sqrt(Vec3HzDistSqr(v))
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Y()*vec3.Y()
}

// ClampFloat clamps num into [min, max].
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	if num > max {
		return max
	}
	return num
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// RoundVec32 will round a 32-bit vector to a given precision.
func RoundVec32(v mgl32.Vec3, p int) mgl32.Vec3 {
	return mgl32.Vec3{Round32(v.X(), p), Round32(v.Y(), p), Round32(v.Z(), p)}
}
