package surface

// Material is a single-character material tag, e.g. 'C' concrete or 'M' metal.
type Material byte

const (
	MaterialDefault  Material = 'C'
	MaterialMetal    Material = 'M'
	MaterialDirt     Material = 'D'
	MaterialWood     Material = 'W'
	MaterialGlass    Material = 'Y'
	MaterialIce      Material = 'I'
	MaterialLadder   Material = 'L'
	MaterialSlosh    Material = 'S'
	MaterialTile     Material = 'T'
	MaterialGrass    Material = 'J'
	MaterialSlippery Material = 'P'
)

// Sample is the physical description of a surface.
type Sample struct {
	Name string `toml:"name"`
	// Friction is the raw coefficient; the mover scales and clamps it.
	Friction   float32  `toml:"friction"`
	JumpFactor float32  `toml:"jump_factor"`
	Material   Material `toml:"-"`
	Climbable  bool     `toml:"climbable"`
}

// Default is returned for unknown surface indices.
var Default = Sample{
	Name:       "default",
	Friction:   0.8,
	JumpFactor: 1,
	Material:   MaterialDefault,
}

// Provider looks up surface properties by index.
type Provider interface {
	Surface(index int) (Sample, bool)
}

// Lookup resolves index through p, falling back to Default for nil providers or unknown indices.
func Lookup(p Provider, index int) Sample {
	if p == nil {
		return Default
	}
	if s, ok := p.Surface(index); ok {
		return s
	}
	return Default
}
