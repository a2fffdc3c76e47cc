package movement

import "testing"

func TestExtendedJumpBonus(t *testing.T) {
	rules := ExtendedRules{}
	tests := []struct {
		name string
		in   JumpInput
		want float32
	}{
		{"standing start", JumpInput{ForwardMove: 200, MaxSpeed: 200}, 100},
		{"near ceiling", JumpInput{ForwardMove: 200, MaxSpeed: 200, HorizontalSpeed: 260}, 40},
		{"over ceiling", JumpInput{ForwardMove: 200, MaxSpeed: 200, HorizontalSpeed: 500}, 0},
		{"backwards", JumpInput{ForwardMove: -200, MaxSpeed: 200}, -100},
		{"sprinting", JumpInput{ForwardMove: 200, MaxSpeed: 200, Sprinting: true}, 20},
		{"ducked", JumpInput{ForwardMove: 200, MaxSpeed: 200, Ducked: true}, 20},
		{"no input", JumpInput{MaxSpeed: 200}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.JumpBonus(tt.in); !approx(got, tt.want, 1e-3) {
				t.Fatalf("expected bonus %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBaseRules(t *testing.T) {
	rules := BaseRules{}
	if got := rules.JumpBonus(JumpInput{ForwardMove: 200, MaxSpeed: 200}); got != 0 {
		t.Fatalf("expected no jump bonus, got %v", got)
	}
	if rules.JumpFinishesDuck() {
		t.Fatal("base rules should not finish a duck on jump")
	}
	if rules.LadderLateralMultiplier(false) != 1 {
		t.Fatal("expected unscaled ladder movement")
	}
}

func TestRulesFor(t *testing.T) {
	for name, want := range map[string]string{"": "base", "base": "base", "extended": "extended"} {
		r, err := RulesFor(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if r.Name() != want {
			t.Fatalf("%q: expected %s rules, got %s", name, want, r.Name())
		}
	}
	if _, err := RulesFor("quake"); err == nil {
		t.Fatal("expected unknown rules to be rejected")
	}
}
