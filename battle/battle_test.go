package battle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nstehr/galacticon/research"
	"github.com/nstehr/galacticon/ship"
)

var testID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func defaultDoctrine(t *testing.T) *Doctrine {
	t.Helper()
	d, err := NewDoctrine(DefaultRuleSpecs())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSeedFromID(t *testing.T) {
	a1, a2 := SeedFromID(testID)
	b1, b2 := SeedFromID(testID)
	if a1 != b1 || a2 != b2 {
		t.Errorf("SeedFromID not deterministic: (%d, %d) vs (%d, %d)", a1, a2, b1, b2)
	}
	c1, c2 := SeedFromID(uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"))
	if a1 == c1 && a2 == c2 {
		t.Errorf("different ids produced the same seed")
	}
}

func TestBattleDecisiveVictory(t *testing.T) {
	flagship := newShip(t, 1, "home", ship.Blueprint{Size: 50})
	raider := newShip(t, 2, "raider", ship.Blueprint{Size: 1})
	b := New(testID, []*ship.Ship{raider}, []*ship.Ship{flagship}, defaultDoctrine(t), 10)

	if b.State() != StateDeployed {
		t.Fatalf("State() = %q, want %q", b.State(), StateDeployed)
	}
	// The two camps start 500 apart, inside projectile range.
	if err := b.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !b.Resolved() || b.State() != StateResolved {
		t.Fatalf("State() = %q after a one-sided volley, want %q", b.State(), StateResolved)
	}
	if w, ok := b.Winner(); !ok || w != Defender {
		t.Errorf("Winner() = %v, %v; want defender, true", w, ok)
	}
	if !raider.Destroyed() {
		t.Errorf("raider survived")
	}
	if err := b.Step(context.Background()); !errors.Is(err, ErrResolved) {
		t.Errorf("Step after resolution error = %v, want ErrResolved", err)
	}
}

func TestBattleStalemate(t *testing.T) {
	inert := ship.Blueprint{Strengths: map[string]float64{
		research.Propulsion:        0,
		research.EnergyWeapons:     0,
		research.Missiles:          0,
		research.ProjectileWeapons: 0,
	}}
	a := newShip(t, 1, "agg", inert)
	d := newShip(t, 2, "def", inert)
	b := New(testID, []*ship.Ship{a}, []*ship.Ship{d}, defaultDoctrine(t), 5)

	for i := range 4 {
		if err := b.Step(context.Background()); err != nil {
			t.Fatal(err)
		}
		if b.State() != StateEngaged {
			t.Fatalf("State() after step %d = %q, want %q", i+1, b.State(), StateEngaged)
		}
	}
	if err := b.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !b.Resolved() || b.Steps() != 5 {
		t.Errorf("Resolved, Steps = %v, %d; want true, 5", b.Resolved(), b.Steps())
	}
	if _, ok := b.Winner(); ok {
		t.Errorf("stalemate has a winner")
	}
}

func TestBattleEmptyCamp(t *testing.T) {
	a := newShip(t, 1, "agg", ship.Blueprint{})
	b := New(testID, []*ship.Ship{a}, nil, defaultDoctrine(t), 0)
	if b.MaxSteps() != DefaultMaxSteps {
		t.Errorf("MaxSteps() = %d, want %d", b.MaxSteps(), DefaultMaxSteps)
	}
	if err := b.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if w, ok := b.Winner(); !ok || w != Aggressor || b.Steps() != 1 {
		t.Errorf("Winner, Steps = %v %v, %d; want aggressor true, 1", w, ok, b.Steps())
	}
}

func TestBattleRunCancelled(t *testing.T) {
	a := newShip(t, 1, "agg", ship.Blueprint{})
	d := newShip(t, 2, "def", ship.Blueprint{})
	b := New(testID, []*ship.Ship{a}, []*ship.Ship{d}, defaultDoctrine(t), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Run(cancelled) error = %v, want context.Canceled", err)
	}
	if b.Steps() != 0 {
		t.Errorf("Steps() = %d, want 0", b.Steps())
	}
}

func TestBattleReplaysFromID(t *testing.T) {
	run := func() *Battle {
		var aggs, defs []*ship.Ship
		for i := range 3 {
			aggs = append(aggs, newShip(t, i, "agg", ship.Blueprint{Size: 8}))
			defs = append(defs, newShip(t, 10+i, "def", ship.Blueprint{Size: 8}))
		}
		b := New(testID, aggs, defs, defaultDoctrine(t), 40)
		if err := b.Run(context.Background(), 0); err != nil {
			t.Fatal(err)
		}
		return b
	}
	first, second := run(), run()

	if first.Steps() != second.Steps() {
		t.Fatalf("Steps() = %d and %d for the same id", first.Steps(), second.Steps())
	}
	p1, p2 := first.Map.AllPositions(), second.Map.AllPositions()
	if len(p1) != len(p2) {
		t.Fatalf("%d and %d survivors for the same id", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i].Pos != p2[i].Pos || p1[i].Ship.ID != p2[i].Ship.ID {
			t.Errorf("survivor %d: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}
