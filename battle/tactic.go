package battle

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/nstehr/galacticon/ship"
)

// Tactic decides what one ship does in one battle step. Act reports
// whether it had any effect; an error means the ship or its target was
// never on the map.
type Tactic interface {
	Name() string
	Description() string
	Confidence() float64
	Act(s *ship.Ship, m *Map) (bool, error)
}

// Tactic names usable from doctrine rules.
const (
	TacticMoveToClosestAdversary = "move_to_closest_adversary"
	TacticFireAtClosestAdversary = "fire_at_closest_adversary"
)

var tactics = map[string]Tactic{
	TacticMoveToClosestAdversary: MoveToClosestAdversary{},
	TacticFireAtClosestAdversary: FireAtClosestAdversary{},
}

// LookupTactic returns the registered tactic called name.
func LookupTactic(name string) (Tactic, error) {
	t, ok := tactics[name]
	if !ok {
		return nil, fmt.Errorf("unknown tactic %q", name)
	}
	return t, nil
}

// TacticNames lists the registered tactics in sorted order.
func TacticNames() []string {
	names := make([]string, 0, len(tactics))
	for n := range tactics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MoveToClosestAdversary closes on the nearest enemy ship by up to the
// ship's speed. It has no memory between calls.
type MoveToClosestAdversary struct{}

func (MoveToClosestAdversary) Name() string { return TacticMoveToClosestAdversary }

func (MoveToClosestAdversary) Description() string {
	return "moves toward the closest adversary, up to the ship's speed"
}

func (MoveToClosestAdversary) Confidence() float64 { return 1 }

func (MoveToClosestAdversary) Act(s *ship.Ship, m *Map) (bool, error) {
	adversary, dist, err := m.ClosestAdversary(s)
	if err != nil || adversary == nil {
		return false, err
	}
	from, err := m.Position(s)
	if err != nil {
		return false, err
	}
	to, err := m.Position(adversary)
	if err != nil {
		return false, err
	}

	dest := to
	if speed := s.Speed(); dist > speed {
		ratio := speed / dist
		dest = Point{X: from.X + (to.X-from.X)*ratio, Y: from.Y + (to.Y-from.Y)*ratio}
	}
	if err := m.Move(s, dest); err != nil {
		return false, err
	}

	// Move may have fallen back to staying put.
	now, err := m.Position(s)
	if err != nil {
		return false, err
	}
	return now != from, nil
}

// FireAtClosestAdversary fires every weapon at the nearest enemy ship. A
// target destroyed mid-volley is taken off the map and the volley ends.
type FireAtClosestAdversary struct{}

func (FireAtClosestAdversary) Name() string { return TacticFireAtClosestAdversary }

func (FireAtClosestAdversary) Description() string {
	return "fires all weapons in range at the closest adversary"
}

func (FireAtClosestAdversary) Confidence() float64 { return 1 }

func (FireAtClosestAdversary) Act(s *ship.Ship, m *Map) (bool, error) {
	target, dist, err := m.ClosestAdversary(s)
	if err != nil || target == nil {
		return false, err
	}
	if target.Destroyed() {
		m.Remove(target)
		return false, nil
	}
	fired := false
	for _, w := range s.Weapons() {
		if w.Damage(dist) <= 0 {
			continue
		}
		fired = true
		if w.Hit(target, dist) {
			m.Remove(target)
			slog.Info("ship destroyed in battle", "attacker", s.ID, "target", target.ID, "weapon", w.Slot.Name)
			break
		}
	}
	return fired, nil
}
