package settings

import (
	"errors"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/pelletier/go-toml"
)

// Movement holds every tunable of the mover. A copy is taken at the start of each tick, so
// changing it never affects a tick already in progress.
type Movement struct {
	Gravity         float32 `toml:"gravity"`
	Friction        float32 `toml:"friction"`
	StopSpeed       float32 `toml:"stop_speed"`
	Accelerate      float32 `toml:"accelerate"`
	AirAccelerate   float32 `toml:"air_accelerate"`
	AirSpeedCap     float32 `toml:"air_speed_cap"`
	WaterAccelerate float32 `toml:"water_accelerate"`
	MaxSpeed        float32 `toml:"max_speed"`
	MaxVelocity     float32 `toml:"max_velocity"`
	// Bounce scales how much velocity is reflected off walls on the first impact in the air.
	Bounce     float32 `toml:"bounce"`
	StepSize   float32 `toml:"step_size"`
	JumpHeight float32 `toml:"jump_height"`
	// AllowAutoMovement enables stair stepping and pressing down onto steps in water.
	AllowAutoMovement bool `toml:"allow_auto_movement"`

	NoclipSpeed      float32 `toml:"noclip_speed"`
	NoclipAccelerate float32 `toml:"noclip_accelerate"`
	SpecSpeed        float32 `toml:"spec_speed"`
	SpecAccelerate   float32 `toml:"spec_accelerate"`
	SpecNoclip       bool    `toml:"spec_noclip"`

	HullWidth      float32 `toml:"hull_width"`
	StandHeight    float32 `toml:"stand_height"`
	DuckHeight     float32 `toml:"duck_height"`
	ViewHeight     float32 `toml:"view_height"`
	DuckViewHeight float32 `toml:"duck_view_height"`

	LadderClimbSpeed float32 `toml:"ladder_climb_speed"`
	LadderJumpSpeed  float32 `toml:"ladder_jump_speed"`

	// TickInterval is the frame time used by callers that generate commands.
	TickInterval float32 `toml:"tick_interval"`
	// Rules names the per-mod behaviour set, "base" or "extended".
	Rules string `toml:"rules"`
}

// DefaultSettings returns the default movement settings.
func DefaultSettings() Movement {
	return Movement{
		Gravity:           800,
		Friction:          4,
		StopSpeed:         75,
		Accelerate:        5,
		AirAccelerate:     150,
		AirSpeedCap:       30,
		WaterAccelerate:   10,
		MaxSpeed:          260,
		MaxVelocity:       3500,
		StepSize:          18,
		JumpHeight:        57,
		AllowAutoMovement: true,

		NoclipSpeed:      5,
		NoclipAccelerate: 5,
		SpecSpeed:        3,
		SpecAccelerate:   5,
		SpecNoclip:       true,

		HullWidth:      32,
		StandHeight:    72,
		DuckHeight:     36,
		ViewHeight:     64,
		DuckViewHeight: 28,

		LadderClimbSpeed: 200,
		LadderJumpSpeed:  270,

		TickInterval: 0.015,
		Rules:        "base",
	}
}

// Hull returns the mins and maxs of the standing or ducked hull.
func (m Movement) Hull(ducked bool) (mins, maxs mgl32.Vec3) {
	if ducked {
		return game.HullExtents(m.HullWidth, m.DuckHeight)
	}
	return game.HullExtents(m.HullWidth, m.StandHeight)
}

// ViewOffset returns the eye height above the origin for the given hull.
func (m Movement) ViewOffset(ducked bool) float32 {
	if ducked {
		return m.DuckViewHeight
	}
	return m.ViewHeight
}

// Validate rejects settings the mover cannot work with.
func (m Movement) Validate() error {
	switch {
	case m.HullWidth <= 0 || m.StandHeight <= 0 || m.DuckHeight <= 0:
		return oerror.New("hull dimensions must be positive")
	case m.DuckHeight > m.StandHeight:
		return oerror.New("ducked hull (%v) is taller than standing hull (%v)", m.DuckHeight, m.StandHeight)
	case m.MaxVelocity <= 0:
		return oerror.New("max_velocity must be positive")
	case m.StepSize < 0:
		return oerror.New("step_size must not be negative")
	case m.TickInterval <= 0:
		return oerror.New("tick_interval must be positive")
	case m.Rules != "base" && m.Rules != "extended":
		return oerror.New("unknown rules %q", m.Rules)
	}
	return nil
}

// Decode parses TOML over the defaults, so keys absent from data keep their default value.
func Decode(data []byte) (Movement, error) {
	user, err := toml.LoadBytes(data)
	if err != nil {
		return Movement{}, oerror.New("error decoding settings: %w", err)
	}
	base, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return Movement{}, oerror.New("error encoding default settings: %w", err)
	}
	merged, err := toml.LoadBytes(base)
	if err != nil {
		return Movement{}, oerror.New("error decoding default settings: %w", err)
	}
	for _, key := range user.Keys() {
		merged.Set(key, user.Get(key))
	}

	var s Movement
	if err := merged.Unmarshal(&s); err != nil {
		return Movement{}, oerror.New("error decoding settings: %w", err)
	}
	return s, s.Validate()
}

// Encode returns s as TOML.
func Encode(s Movement) ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, oerror.New("failed encoding settings: %w", err)
	}
	return data, nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := Encode(DefaultSettings())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return oerror.New("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
func Load(path string) (Movement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Movement{}, oerror.New("error reading settings: %w", err)
	}
	return Decode(data)
}
