package game

const (
	// Duck timers, in seconds.
	DuckDuration = float32(1.0)
	TimeToDuck   = float32(0.4)
	TimeToUnduck = float32(0.2)
	// CrouchStuckSearch is how many one-unit nudges are tried after finishing a duck.
	CrouchStuckSearch = 36

	WaterJumpProbe       = float32(24)
	WaterJumpHeight      = float32(8)
	WaterJumpDuration    = float32(2)
	WaterJumpMaxDuration = float32(10)
	WaterJumpPush        = float32(256)
	WaterJumpWallPush    = float32(50)
	WaterJumpLandProbe   = float32(1024)
	// WaterJumpMinVerticalSpeed stops a water jump from starting while diving.
	WaterJumpMinVerticalSpeed = float32(-180)

	WaterSinkSpeed    = float32(60)
	WaterSwimUpSpeed  = float32(100)
	SlimeSwimUpSpeed  = float32(80)
	WaterWishDamping  = float32(0.8)
	WaterStopSpeed    = float32(0.1)
	SwimSoundInterval = float32(1.0)

	LadderDistance = float32(2)

	FallPunchThreshold   = float32(350)
	MaxSafeFallSpeed     = float32(526.5)
	MinBounceSpeed       = float32(200)
	LandOnFloatingObject = float32(200)

	StepSoundWalkSpeed    = float32(90)
	StepSoundRunSpeed     = float32(220)
	StepSoundWalkInterval = float32(0.4)
	StepSoundRunInterval  = float32(0.3)
	StepSoundDuckInterval = float32(0.4)
	// JumpStepHeight is reported as step height on a jump tick to smooth the view.
	JumpStepHeight = float32(0.15)
)

const StepSoundLadderInterval = float32(0.35)
