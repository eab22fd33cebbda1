package ship

// Fleet is a group of ships moving together under one owner.
type Fleet struct {
	Owner string
	Ships []*Ship
}

// Speed is the speed of the slowest ship, or 0 for an empty fleet.
func (f *Fleet) Speed() float64 {
	if len(f.Ships) == 0 {
		return 0
	}
	speed := f.Ships[0].Speed()
	for _, s := range f.Ships[1:] {
		speed = min(speed, s.Speed())
	}
	return speed
}

// Alive returns the ships not yet destroyed.
func (f *Fleet) Alive() []*Ship {
	var out []*Ship
	for _, s := range f.Ships {
		if !s.Destroyed() {
			out = append(out, s)
		}
	}
	return out
}
