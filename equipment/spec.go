package equipment

import (
	"math"

	"github.com/nstehr/galacticon/alloc"
)

// TotalSpecificationValue is the fixed budget shared by a spec's values.
const TotalSpecificationValue = 100

// Specification names.
const (
	Focus    = "Focus"
	Force    = "Force"
	Piercing = "Piercing"
	Impact   = "Impact"
	Speed    = "Speed"
	Armor    = "Armor"
	Payload  = "Payload"
)

// Spec splits one slot's 100 specification points across named
// sub-allocations, e.g. an energy weapon's Focus vs Force.
type Spec struct {
	Names  []string
	Values []int
}

// NewSpec splits the budget evenly across names.
func NewSpec(names ...string) *Spec {
	return &Spec{
		Names:  append([]string(nil), names...),
		Values: alloc.Even(len(names), TotalSpecificationValue),
	}
}

// Index returns the position of name, or -1.
func (s *Spec) Index(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Value returns the points allocated to name (0 if absent).
func (s *Spec) Value(name string) float64 {
	if i := s.Index(name); i >= 0 {
		return float64(s.Values[i])
	}
	return 0
}

// SetValue moves the slider at index to value and rescales the rest.
// Out-of-range indexes are ignored.
func (s *Spec) SetValue(index int, value float64) {
	if index < 0 || index >= len(s.Values) {
		return
	}
	target := int(math.Round(clamp(value, 0, TotalSpecificationValue)))
	s.Values = alloc.Distribute(s.Values, index, target, TotalSpecificationValue)
}

// Set is SetValue by name; unknown names are ignored.
func (s *Spec) Set(name string, value float64) {
	s.SetValue(s.Index(name), value)
}

// Clone returns an independent copy.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	return &Spec{
		Names:  append([]string(nil), s.Names...),
		Values: append([]int(nil), s.Values...),
	}
}

func clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
