package movement

import "github.com/go-gl/mathgl/mgl32"

// Buttons is the bitmask of held inputs in a command.
type Buttons uint32

const (
	ButtonJump Buttons = 1 << iota
	ButtonDuck
	// ButtonSpeed is the walk/sprint modifier.
	ButtonSpeed
	ButtonAttack
	ButtonUse
)

// Has reports whether every button in o is held.
func (b Buttons) Has(o Buttons) bool {
	return b&o == o
}

// Command is one tick of player input.
type Command struct {
	// Number orders commands; prediction acknowledges by it.
	Number uint64

	ForwardMove float32
	SideMove    float32
	UpMove      float32
	Buttons     Buttons
	// ViewAngles are pitch, yaw and roll in degrees. Positive pitch looks down.
	ViewAngles mgl32.Vec3
	// MaxSpeed is the client's speed limit. Zero or anything above the configured limit uses
	// the configured limit.
	MaxSpeed  float32
	FrameTime float32
}
