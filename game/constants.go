package game

// Collision and ground thresholds. Units are world units (inches), Z is up.
const (
	// Planes with a normal Z below this are too steep to stand on.
	WalkableNormalZ = float32(0.7)
	// NonJumpVelocity is the upward speed above which the player is never considered grounded.
	NonJumpVelocity = float32(140)
	// GroundProbeDistance is how far below the hull the ground tracker looks.
	GroundProbeDistance = float32(2)
	// DistEpsilon is the distance traces stop short of a surface.
	DistEpsilon = float32(0.03125)
	// CoordResolution is the smallest position delta the network layer can represent.
	CoordResolution = float32(1.0 / 32.0)

	MaxClipPlanes = 5
	MaxBumps      = 4

	// SurfaceFrictionScale is applied to a surface's raw friction before clamping to 1.
	SurfaceFrictionScale = float32(1.25)
	// AirborneRisingFriction replaces the surface friction while rising off an unwalkable slope.
	AirborneRisingFriction = float32(0.25)
)
