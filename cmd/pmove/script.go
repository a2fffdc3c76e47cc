package main

import (
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/pelletier/go-toml"
)

// script is a list of input steps, each held for a number of ticks.
type script struct {
	Steps []step `toml:"step"`
}

type step struct {
	Ticks   int      `toml:"ticks"`
	Forward float32  `toml:"forward"`
	Side    float32  `toml:"side"`
	Up      float32  `toml:"up"`
	Pitch   float32  `toml:"pitch"`
	Yaw     float32  `toml:"yaw"`
	Buttons []string `toml:"buttons"`
	// Tap presses the buttons on the first tick of the step only.
	Tap bool `toml:"tap"`
}

var buttonNames = map[string]movement.Buttons{
	"jump":   movement.ButtonJump,
	"duck":   movement.ButtonDuck,
	"speed":  movement.ButtonSpeed,
	"attack": movement.ButtonAttack,
	"use":    movement.ButtonUse,
}

func loadScript(path string, frameTime float32) ([]movement.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oerror.New("error reading script: %w", err)
	}
	return parseScript(data, frameTime)
}

// parseScript expands a script into one command per tick, numbered from 1.
func parseScript(data []byte, frameTime float32) ([]movement.Command, error) {
	var s script
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, oerror.New("error decoding script: %w", err)
	}

	var cmds []movement.Command
	for i, st := range s.Steps {
		if st.Ticks <= 0 {
			return nil, oerror.New("step %d: ticks must be positive", i)
		}
		var buttons movement.Buttons
		for _, name := range st.Buttons {
			b, ok := buttonNames[strings.ToLower(name)]
			if !ok {
				return nil, oerror.New("step %d: unknown button %q", i, name)
			}
			buttons |= b
		}

		for t := 0; t < st.Ticks; t++ {
			cmd := movement.Command{
				Number:      uint64(len(cmds) + 1),
				ForwardMove: st.Forward,
				SideMove:    st.Side,
				UpMove:      st.Up,
				ViewAngles:  mgl32.Vec3{st.Pitch, st.Yaw, 0},
				FrameTime:   frameTime,
			}
			if !st.Tap || t == 0 {
				cmd.Buttons = buttons
			}
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil, oerror.New("script has no steps")
	}
	return cmds, nil
}
