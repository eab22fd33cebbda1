// Package battle runs ship-to-ship combat on a bounded square arena: ship
// placement and movement, per-ship tactics chosen by an expr doctrine, and
// the step loop that carries a battle to its outcome.
package battle

import (
	"errors"
	"fmt"
	"math"

	"github.com/nstehr/galacticon/ship"
)

const (
	// Size is the side length of the square arena.
	Size = 1000.0
	// MinDistance is the spacing every move tries to keep between ships.
	MinDistance = 20.0

	moveAttempts = 10
)

var ErrShipNotPlaced = errors.New("ship not placed on battle map")

// Side is the camp a ship fights for.
type Side int

const (
	Defender Side = iota
	Aggressor
)

func (s Side) String() string {
	if s == Aggressor {
		return "aggressor"
	}
	return "defender"
}

// Point is a position on the map.
type Point struct {
	X, Y float64
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Placement is one ship's position and camp.
type Placement struct {
	Ship *ship.Ship
	Side Side
	Pos  Point
}

// Map holds ship positions in placement order. Iteration order is stable,
// so ties in distance queries always resolve to the earlier-placed ship.
type Map struct {
	placements []Placement
	rng        ship.Rand
}

// NewMap lays the defenders out around 25% of the map width and the
// aggressors around 75%.
func NewMap(aggressors, defenders []*ship.Ship, rng ship.Rand) *Map {
	m := &Map{rng: rng}
	m.place(defenders, Size*0.25, Defender)
	m.place(aggressors, Size*0.75, Aggressor)
	return m
}

// place spreads ships into columns of at most Size/MinDistance rows, the
// columns centered on centerX and each column centered vertically.
func (m *Map) place(ships []*ship.Ship, centerX float64, side Side) {
	n := len(ships)
	if n == 0 {
		return
	}
	maxPerCol := int(math.Floor(Size / MinDistance))
	cols := (n + maxPerCol - 1) / maxPerCol
	colStart := centerX - float64(cols-1)*MinDistance/2

	idx := 0
	for col := 0; col < cols; col++ {
		inCol := min(maxPerCol, n-idx)
		yStart := Size/2 - float64(inCol-1)*MinDistance/2
		for row := 0; row < inCol; row++ {
			m.placements = append(m.placements, Placement{
				Ship: ships[idx],
				Side: side,
				Pos:  Point{X: colStart + float64(col)*MinDistance, Y: yStart + float64(row)*MinDistance},
			})
			idx++
		}
	}
}

func (m *Map) index(s *ship.Ship) int {
	for i := range m.placements {
		if m.placements[i].Ship == s {
			return i
		}
	}
	return -1
}

// Position returns where s is. Asking for a ship that was never placed (or
// was removed) is a caller bug and returns ErrShipNotPlaced.
func (m *Map) Position(s *ship.Ship) (Point, error) {
	i := m.index(s)
	if i < 0 {
		return Point{}, fmt.Errorf("%w: ship %d", ErrShipNotPlaced, s.ID)
	}
	return m.placements[i].Pos, nil
}

// Side returns the camp of a placed ship.
func (m *Map) Side(s *ship.Ship) (Side, error) {
	i := m.index(s)
	if i < 0 {
		return 0, fmt.Errorf("%w: ship %d", ErrShipNotPlaced, s.ID)
	}
	return m.placements[i].Side, nil
}

// AllPositions returns a copy of every placement in map order.
func (m *Map) AllPositions() []Placement {
	return append([]Placement(nil), m.placements...)
}

// Ships returns the placed ships of one camp in map order.
func (m *Map) Ships(side Side) []*ship.Ship {
	var out []*ship.Ship
	for _, p := range m.placements {
		if p.Side == side {
			out = append(out, p.Ship)
		}
	}
	return out
}

// ClosestAdversary returns the nearest ship owned by another player and its
// distance, or nil when there is none.
func (m *Map) ClosestAdversary(s *ship.Ship) (*ship.Ship, float64, error) {
	from, err := m.Position(s)
	if err != nil {
		return nil, 0, err
	}
	var closest *ship.Ship
	best := math.Inf(1)
	for _, p := range m.placements {
		if p.Ship == s || p.Ship.Owner == s.Owner {
			continue
		}
		if d := from.Distance(p.Pos); d < best {
			best = d
			closest = p.Ship
		}
	}
	if closest == nil {
		return nil, 0, nil
	}
	return closest, best, nil
}

// Move puts s at target if that keeps MinDistance to every other ship.
// Otherwise it tries up to ten random points between one and two
// MinDistance from target, clamped to the arena. When all of them are
// crowded the ship stays where it is.
func (m *Map) Move(s *ship.Ship, target Point) error {
	i := m.index(s)
	if i < 0 {
		return fmt.Errorf("%w: ship %d", ErrShipNotPlaced, s.ID)
	}
	if m.clear(i, target) {
		m.placements[i].Pos = target
		return nil
	}
	for range moveAttempts {
		angle := m.rng.Float64() * 2 * math.Pi
		dist := MinDistance + m.rng.Float64()*MinDistance
		p := Point{
			X: clamp(target.X+math.Cos(angle)*dist, 0, Size),
			Y: clamp(target.Y+math.Sin(angle)*dist, 0, Size),
		}
		if m.clear(i, p) {
			m.placements[i].Pos = p
			return nil
		}
	}
	return nil
}

// clear reports whether p is at least MinDistance from every ship but the
// one at index self.
func (m *Map) clear(self int, p Point) bool {
	for j, other := range m.placements {
		if j == self {
			continue
		}
		if other.Pos.Distance(p) < MinDistance {
			return false
		}
	}
	return true
}

// Remove takes s off the map; removing an absent ship does nothing.
func (m *Map) Remove(s *ship.Ship) {
	if i := m.index(s); i >= 0 {
		m.placements = append(m.placements[:i], m.placements[i+1:]...)
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
