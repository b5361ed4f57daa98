package layout

import (
	"github.com/matzehuels/livelayout/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// Params carries the optional numeric parameters of placement strategies.
// Each strategy reads only the fields it needs.
type Params struct {
	Radius  float64 // Circle radius
	Spacing float64 // Grid cell size
	Columns int     // Grid columns; 0 picks ceil(sqrt(n))
	Width   float64 // Random box width
	Height  float64 // Random box height
	Seed    int64   // Random seed
	Center  r2.Vec  // Centre of every placement
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Radius:  100,
		Spacing: 50,
		Width:   200,
		Height:  200,
		Seed:    1,
	}
}

// WithCenter returns a copy of p centred on c.
func (p Params) WithCenter(c r2.Vec) Params {
	p.Center = c
	return p
}

// Validate rejects values no strategy accepts: negative or non-finite sizes
// and negative column counts. Zero sizes are left to the strategies that
// read them.
func (p Params) Validate() error {
	sizes := []struct {
		name string
		v    float64
	}{
		{"radius", p.Radius},
		{"spacing", p.Spacing},
		{"width", p.Width},
		{"height", p.Height},
	}
	for _, s := range sizes {
		if err := errors.ValidateNonNegative(s.name, s.v); err != nil {
			return err
		}
	}
	if p.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "columns must not be negative, got %d", p.Columns)
	}
	return nil
}

// ValidateFor checks the fields read by the strategy registered under name.
// Unknown names are rejected with errors.ErrCodeInvalidStrategy.
func (p Params) ValidateFor(name string) error {
	switch name {
	case StrategyCircle:
		return p.validateCircle()
	case StrategyGrid:
		return p.validateGrid()
	case StrategyRandom:
		return p.validateRandom()
	case StrategyOrigin:
		return nil
	}
	_, err := LookupStrategy(name)
	return err
}

func (p Params) validateCircle() error {
	return errors.ValidatePositive("radius", p.Radius)
}

func (p Params) validateGrid() error {
	if err := errors.ValidatePositive("spacing", p.Spacing); err != nil {
		return err
	}
	if p.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "columns must not be negative, got %d", p.Columns)
	}
	return nil
}

func (p Params) validateRandom() error {
	if err := errors.ValidatePositive("width", p.Width); err != nil {
		return err
	}
	return errors.ValidatePositive("height", p.Height)
}
