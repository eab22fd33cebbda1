package research

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTrackEfficiency(t *testing.T) {
	tests := []struct {
		points float64
		want   float64
	}{
		{0, 1},
		{200, 1 + 4*(1-math.Exp(-1))},
		{400, 1 + 4*(1-math.Exp(-2))},
	}
	for _, tc := range tests {
		tr := NewTrack(Armor)
		tr.ResearchPoints = tc.points
		if got := tr.Efficiency(); !approx(got, tc.want) {
			t.Errorf("Efficiency() with %g points = %f, want %f", tc.points, got, tc.want)
		}
	}

	tr := NewTrack(Armor)
	tr.ResearchPoints = 2000
	if got := tr.Efficiency(); got >= 5 || got < 4.99 {
		t.Errorf("Efficiency() with 2000 points = %f, want just under 5", got)
	}
}

func TestTrackInvest(t *testing.T) {
	tr := NewTrack(Sensors)
	tr.Invest()
	tr.Invest()
	if tr.ResearchPoints != 2*Increment {
		t.Errorf("ResearchPoints = %f, want %f", tr.ResearchPoints, 2*Increment)
	}

	for _, p := range []float64{0, -5, math.NaN()} {
		err := tr.InvestPoints(p)
		if !errors.Is(err, ErrNonPositiveInvestment) {
			t.Errorf("InvestPoints(%g) error = %v, want ErrNonPositiveInvestment", p, err)
		}
	}
	if tr.ResearchPoints != 2*Increment {
		t.Errorf("rejected investments changed points to %f", tr.ResearchPoints)
	}
	if err := tr.InvestPoints(5); err != nil || tr.ResearchPoints != 2*Increment+5 {
		t.Errorf("InvestPoints(5) = %v, points %f; want nil, %f", err, tr.ResearchPoints, 2*Increment+5)
	}
}

func TestTrackCloneIsIndependent(t *testing.T) {
	tr := NewTrack(Missiles)
	tr.ResearchPoints = 50
	c := tr.Clone()
	c.Invest()
	if tr.ResearchPoints != 50 {
		t.Errorf("original mutated through clone: %f", tr.ResearchPoints)
	}
	if c.ResearchPoints != 60 || c.Scaling != tr.Scaling || c.Name != tr.Name {
		t.Errorf("clone = %+v, want copy of %+v plus one increment", c, tr)
	}
}

func TestRaceEfficiency(t *testing.T) {
	race := &Race{
		Name:          "Vel'kari",
		ResearchBonus: []BonusEntry{{TechName: Armor, Bonus: 0.25}},
	}
	armor := NewTrack(Armor)
	armor.ResearchPoints = 200
	if got, want := race.Efficiency(armor), armor.Efficiency()*1.25; !approx(got, want) {
		t.Errorf("Efficiency(armor) = %f, want %f", got, want)
	}

	shields := NewTrack(EnergyShields)
	shields.ResearchPoints = 200
	if got, want := race.Efficiency(shields), shields.Efficiency(); !approx(got, want) {
		t.Errorf("Efficiency(shields) = %f, want unmodified %f", got, want)
	}
}

func TestPlanetHabitability(t *testing.T) {
	race := &Race{HomeWorldTypes: []string{"Ocean"}}
	tests := []struct {
		planet string
		hab    float64
		want   float64
	}{
		{"Ocean", 0.3, 1.0},
		{"Ocean", 0.8, 1.2},
		{"Desert", 0.3, 0.3},
	}
	for _, tc := range tests {
		if got := race.PlanetHabitability(tc.planet, tc.hab); !approx(got, tc.want) {
			t.Errorf("PlanetHabitability(%q, %.1f) = %f, want %f", tc.planet, tc.hab, got, tc.want)
		}
	}
}

func TestNewTreeRequiresRace(t *testing.T) {
	if _, err := NewTree(nil); !errors.Is(err, ErrNoRace) {
		t.Errorf("NewTree(nil) error = %v, want ErrNoRace", err)
	}
}

func TestTree(t *testing.T) {
	tree, err := NewTree(&Race{Name: "Human", ResearchBonus: []BonusEntry{{TechName: Propulsion, Bonus: 0.5}}})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if len(tree.Tracks()) != len(TechNames) {
		t.Fatalf("len(Tracks()) = %d, want %d", len(tree.Tracks()), len(TechNames))
	}
	for i, tr := range tree.Tracks() {
		if tr.Name != TechNames[i] {
			t.Errorf("Tracks()[%d] = %q, want %q", i, tr.Name, TechNames[i])
		}
	}

	if err := tree.Invest(Propulsion); err != nil {
		t.Fatalf("Invest: %v", err)
	}
	if err := tree.Invest("Warp Gates"); !errors.Is(err, ErrUnknownTech) {
		t.Errorf("Invest(unknown) error = %v, want ErrUnknownTech", err)
	}

	eff, err := tree.Efficiency(Propulsion)
	if err != nil {
		t.Fatalf("Efficiency: %v", err)
	}
	tr, _ := tree.Track(Propulsion)
	if !approx(eff, tr.Efficiency()*1.5) {
		t.Errorf("Efficiency(Propulsion) = %f, want %f", eff, tr.Efficiency()*1.5)
	}

	clone := tree.Clone()
	if err := clone.Invest(Propulsion); err != nil {
		t.Fatalf("clone Invest: %v", err)
	}
	if tr.ResearchPoints != Increment {
		t.Errorf("original Propulsion points = %f after clone investment, want %f", tr.ResearchPoints, Increment)
	}
}
