package movement

import (
	"github.com/oomph-ac/pmove/oerror"
)

// JumpInput is what a rule set sees when deciding on a jump bonus.
type JumpInput struct {
	ForwardMove     float32
	MaxSpeed        float32
	HorizontalSpeed float32
	Sprinting       bool
	Ducked          bool
}

// Rules are the per-mod behaviours layered over the shared movement code.
type Rules interface {
	Name() string
	// DuckSpeedMultiplier scales move input while ducked on the ground.
	DuckSpeedMultiplier() float32
	// LadderLateralMultiplier scales sideways speed on a ladder.
	LadderLateralMultiplier(duckHeld bool) float32
	// JumpBonus returns the signed speed added along the flat forward direction on a jump.
	JumpBonus(in JumpInput) float32
	// JumpFinishesDuck reports whether jumping mid-duck completes the duck instantly.
	JumpFinishesDuck() bool
}

// BaseRules is plain movement with no mod extras.
type BaseRules struct{}

func (BaseRules) Name() string                         { return "base" }
func (BaseRules) DuckSpeedMultiplier() float32         { return 0.33333333 }
func (BaseRules) LadderLateralMultiplier(bool) float32 { return 1 }
func (BaseRules) JumpBonus(JumpInput) float32          { return 0 }
func (BaseRules) JumpFinishesDuck() bool               { return false }

// ExtendedRules adds a forward jump boost, slower sideways ladder movement unless ducking, and
// instant ducks on jump.
type ExtendedRules struct{}

func (ExtendedRules) Name() string                 { return "extended" }
func (ExtendedRules) DuckSpeedMultiplier() float32 { return 0.34 }

func (ExtendedRules) LadderLateralMultiplier(duckHeld bool) float32 {
	if duckHeld {
		return 1
	}
	return 0.5
}

func (ExtendedRules) JumpBonus(in JumpInput) float32 {
	perc := float32(0.5)
	if in.Sprinting || in.Ducked {
		perc = 0.1
	}

	add := in.ForwardMove * perc
	if add < 0 {
		add = -add
	}
	ceiling := in.MaxSpeed * (1 + perc)
	if newSpeed := add + in.HorizontalSpeed; newSpeed > ceiling {
		add -= newSpeed - ceiling
	}
	// Already above the ceiling: no boost, but never a brake either.
	if add < 0 {
		add = 0
	}
	if in.ForwardMove < 0 {
		add = -add
	}
	return add
}

func (ExtendedRules) JumpFinishesDuck() bool { return true }

// RulesFor returns the rule set with the given name.
func RulesFor(name string) (Rules, error) {
	switch name {
	case "", "base":
		return BaseRules{}, nil
	case "extended":
		return ExtendedRules{}, nil
	}
	return nil, oerror.New("unknown rules %q", name)
}
