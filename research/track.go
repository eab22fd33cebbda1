// Package research models a player's technology investment. Each Track
// turns accumulated research points into an efficiency multiplier that
// ships snapshot when they are built.
package research

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultScaling controls how quickly efficiency approaches its ceiling.
	DefaultScaling = 200.0
	// Increment is the fixed number of points added by one Invest call.
	Increment = 10.0

	baseEfficiency = 1.0
	efficiencySpan = 4.0
)

var ErrNonPositiveInvestment = errors.New("research points invested must be positive")

// Track is the research state of a single technology.
type Track struct {
	Name           string
	ResearchPoints float64
	Scaling        float64
}

// NewTrack returns a track with no research and the default scaling.
func NewTrack(name string) *Track {
	return &Track{Name: name, Scaling: DefaultScaling}
}

// Invest adds the fixed research increment.
func (t *Track) Invest() {
	t.add(Increment)
}

// InvestPoints adds an explicit amount of research points.
func (t *Track) InvestPoints(points float64) error {
	if points <= 0 || math.IsNaN(points) {
		return fmt.Errorf("invest %g in %s: %w", points, t.Name, ErrNonPositiveInvestment)
	}
	t.add(points)
	return nil
}

func (t *Track) add(points float64) {
	t.ResearchPoints += points
	slog.Debug("research invested", "tech", t.Name, "points", points, "total", t.ResearchPoints)
}

// Efficiency is 1 + 4*(1 - exp(-points/scaling)): 1 with no research,
// approaching 5 asymptotically.
func (t *Track) Efficiency() float64 {
	scaling := t.Scaling
	if scaling <= 0 {
		scaling = DefaultScaling
	}
	return baseEfficiency + efficiencySpan*(1-math.Exp(-t.ResearchPoints/scaling))
}

// Clone returns an independent copy.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}
