package battle

import (
	"errors"
	"testing"

	"github.com/nstehr/galacticon/equipment"
	"github.com/nstehr/galacticon/research"
	"github.com/nstehr/galacticon/ship"
)

func TestMoveToClosestAdversary(t *testing.T) {
	tests := []struct {
		name      string
		adversary Point
		wantActed bool
		want      Point
	}{
		// Speed 10: strength 10, efficiency 1, no cargo.
		{"closes by speed", Point{600, 500}, true, Point{510, 500}},
		{"diagonal", Point{530, 540}, true, Point{506, 508}},
		// Both the step target and the perturbation land next to the adversary.
		{"blocked", Point{520, 500}, false, Point{500, 500}},
	}
	for _, tc := range tests {
		s := newShip(t, 1, "agg", ship.Blueprint{})
		adv := newShip(t, 2, "def", ship.Blueprint{})
		m := layout(fixed(0),
			Placement{s, Aggressor, Point{500, 500}},
			Placement{adv, Defender, tc.adversary},
		)
		acted, err := MoveToClosestAdversary{}.Act(s, m)
		if err != nil {
			t.Fatalf("%s: Act: %v", tc.name, err)
		}
		if acted != tc.wantActed {
			t.Errorf("%s: Act = %v, want %v", tc.name, acted, tc.wantActed)
		}
		got, _ := m.Position(s)
		if got.Distance(tc.want) > 1e-9 {
			t.Errorf("%s: position %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestMoveToClosestAdversaryNoAdversary(t *testing.T) {
	s := newShip(t, 1, "agg", ship.Blueprint{})
	m := layout(fixed(0), Placement{s, Aggressor, Point{500, 500}})
	acted, err := MoveToClosestAdversary{}.Act(s, m)
	if acted || err != nil {
		t.Errorf("Act with no adversary = %v, %v; want false, nil", acted, err)
	}

	stray := newShip(t, 2, "agg", ship.Blueprint{})
	if _, err := (MoveToClosestAdversary{}).Act(stray, m); !errors.Is(err, ErrShipNotPlaced) {
		t.Errorf("Act on unplaced ship error = %v, want ErrShipNotPlaced", err)
	}
}

func TestFireAtClosestAdversary(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		wantFired bool
	}{
		{"all weapons in range", 100, true},
		{"projectiles only", 450, true},
		{"out of range", 600, false},
	}
	for _, tc := range tests {
		s := newShip(t, 1, "agg", ship.Blueprint{})
		target := newShip(t, 2, "def", ship.Blueprint{})
		m := layout(fixed(0.99),
			Placement{s, Aggressor, Point{500, 500}},
			Placement{target, Defender, Point{500 - tc.distance, 500}},
		)
		fired, err := FireAtClosestAdversary{}.Act(s, m)
		if err != nil {
			t.Fatalf("%s: Act: %v", tc.name, err)
		}
		if fired != tc.wantFired {
			t.Errorf("%s: Act = %v, want %v", tc.name, fired, tc.wantFired)
		}
		shield := target.SlotOfKind(equipment.KindShield).Layer
		if (shield.Degradation > 0) != tc.wantFired {
			t.Errorf("%s: shield Degradation = %f", tc.name, shield.Degradation)
		}
	}
}

func TestFireAtClosestAdversaryRemovesDestroyed(t *testing.T) {
	s := newShip(t, 1, "agg", ship.Blueprint{Size: 100})
	target := newShip(t, 2, "def", ship.Blueprint{Size: 1})
	target.SetRand(fixed(0))
	m := layout(fixed(0),
		Placement{s, Aggressor, Point{500, 500}},
		Placement{target, Defender, Point{480, 500}},
	)

	fired, err := FireAtClosestAdversary{}.Act(s, m)
	if err != nil || !fired {
		t.Fatalf("Act = %v, %v; want true, nil", fired, err)
	}
	if !target.Destroyed() {
		t.Fatalf("target survived a point-blank volley")
	}
	if _, err := m.Position(target); !errors.Is(err, ErrShipNotPlaced) {
		t.Errorf("destroyed target still on the map")
	}
}

func TestFireAtWreckClearsIt(t *testing.T) {
	s := newShip(t, 1, "agg", ship.Blueprint{Size: 100})
	wreck := newShip(t, 2, "def", ship.Blueprint{Size: 1})
	wreck.SetRand(fixed(0))
	wreck.TakeDamage(1000)
	if !wreck.Destroyed() {
		t.Fatalf("setup: wreck not destroyed")
	}
	m := layout(fixed(0),
		Placement{s, Aggressor, Point{500, 500}},
		Placement{wreck, Defender, Point{480, 500}},
	)

	fired, err := FireAtClosestAdversary{}.Act(s, m)
	if err != nil || fired {
		t.Errorf("Act on wreck = %v, %v; want false, nil", fired, err)
	}
	if _, err := m.Position(wreck); !errors.Is(err, ErrShipNotPlaced) {
		t.Errorf("wreck still on the map")
	}
}

func TestLookupTactic(t *testing.T) {
	for _, name := range TacticNames() {
		tac, err := LookupTactic(name)
		if err != nil {
			t.Fatalf("LookupTactic(%q): %v", name, err)
		}
		if tac.Name() != name {
			t.Errorf("LookupTactic(%q).Name() = %q", name, tac.Name())
		}
		if tac.Description() == "" {
			t.Errorf("%s has no description", name)
		}
	}
	if _, err := LookupTactic("retreat"); err == nil {
		t.Errorf("LookupTactic(retreat) succeeded, want error")
	}
}

func TestMoveUsesResearchedSpeed(t *testing.T) {
	tree, err := research.NewTree(&research.Race{Name: "Terran"})
	if err != nil {
		t.Fatal(err)
	}
	for range 20 {
		tree.Invest(research.Propulsion)
	}
	s, err := ship.Build(1, "agg", tree, ship.Blueprint{Size: 10}, fixed(0))
	if err != nil {
		t.Fatal(err)
	}
	adv := newShip(t, 2, "def", ship.Blueprint{})
	m := layout(fixed(0),
		Placement{s, Aggressor, Point{500, 500}},
		Placement{adv, Defender, Point{200, 500}},
	)
	if _, err := (MoveToClosestAdversary{}).Act(s, m); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Position(s)
	if want := 500 - s.Speed(); got.Distance(Point{want, 500}) > 1e-9 {
		t.Errorf("position %+v, want (%f, 500)", got, want)
	}
}
