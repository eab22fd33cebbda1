package model

import (
	"github.com/nstehr/galacticon/battle"
	"github.com/nstehr/galacticon/equipment"
	"github.com/nstehr/galacticon/research"
	"github.com/nstehr/galacticon/ship"
)

type ShipState struct {
	ID          int         `json:"id"`
	Owner       string      `json:"owner"`
	Name        string      `json:"name"`
	Size        float64     `json:"size"`
	Colonists   int         `json:"colonists"`
	Troops      int         `json:"troops"`
	EnergyLevel float64     `json:"energyLevel"`
	Speed       float64     `json:"speed"`
	Weight      float64     `json:"weight"`
	DamageRatio float64     `json:"damageRatio"`
	Destroyed   bool        `json:"destroyed"`
	Equipment   []SlotState `json:"equipment"`
}

type SlotState struct {
	Name            string      `json:"name"`
	Kind            string      `json:"kind"`
	Strength        float64     `json:"strength"`
	Efficiency      float64     `json:"efficiency"`
	StartEfficiency float64     `json:"startEfficiency"`
	TotalStrength   float64     `json:"totalStrength"`
	Spec            []SpecValue `json:"spec,omitempty"`
	Layer           *LayerState `json:"layer,omitempty"`
}

type SpecValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type LayerState struct {
	Capacity    float64 `json:"capacity"`
	Degradation float64 `json:"degradation"`
}

type ResearchState struct {
	Race   string       `json:"race"`
	Tracks []TrackState `json:"tracks"`
}

type TrackState struct {
	Name       string  `json:"name"`
	Points     float64 `json:"points"`
	Efficiency float64 `json:"efficiency"`
}

type BattleState struct {
	ID       string       `json:"id"`
	State    string       `json:"state"`
	Step     int          `json:"step"`
	MaxSteps int          `json:"maxSteps"`
	Winner   string       `json:"winner,omitempty"`
	Ships    []BattleShip `json:"ships"`
}

// BattleShip is a ship still on the battle map.
type BattleShip struct {
	Side string    `json:"side"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Ship ShipState `json:"ship"`
}

func NewShipState(s *ship.Ship) ShipState {
	st := ShipState{
		ID:          s.ID,
		Owner:       s.Owner,
		Name:        s.Name,
		Size:        s.Size,
		Colonists:   s.Colonists,
		Troops:      s.Troops,
		EnergyLevel: s.EnergyLevel,
		Speed:       s.Speed(),
		Weight:      s.Weight(),
		DamageRatio: s.TotalDamageRatio(),
		Destroyed:   s.Destroyed(),
		Equipment:   make([]SlotState, 0, len(s.Equipment)),
	}
	for _, e := range s.Equipment {
		st.Equipment = append(st.Equipment, newSlotState(e))
	}
	return st
}

func newSlotState(e *equipment.Slot) SlotState {
	st := SlotState{
		Name:            e.Name,
		Kind:            e.Kind.String(),
		Strength:        e.Strength,
		Efficiency:      e.Efficiency,
		StartEfficiency: e.StartEfficiency,
		TotalStrength:   e.TotalStrength(),
	}
	if e.Spec != nil {
		for i, n := range e.Spec.Names {
			st.Spec = append(st.Spec, SpecValue{Name: n, Value: e.Spec.Values[i]})
		}
	}
	if e.Layer != nil {
		st.Layer = &LayerState{Capacity: e.Layer.Strength, Degradation: e.Layer.Degradation}
	}
	return st
}

// NewResearchState reports each track with its race-adjusted efficiency.
func NewResearchState(t *research.Tree) ResearchState {
	st := ResearchState{Race: t.Race.Name}
	for _, tr := range t.Tracks() {
		st.Tracks = append(st.Tracks, TrackState{
			Name:       tr.Name,
			Points:     tr.ResearchPoints,
			Efficiency: t.Race.Efficiency(tr),
		})
	}
	return st
}

func NewBattleState(b *battle.Battle) BattleState {
	st := BattleState{
		ID:       b.ID.String(),
		State:    b.State(),
		Step:     b.Steps(),
		MaxSteps: b.MaxSteps(),
	}
	if w, ok := b.Winner(); ok {
		st.Winner = w.String()
	}
	for _, p := range b.Map.AllPositions() {
		st.Ships = append(st.Ships, BattleShip{
			Side: p.Side.String(),
			X:    p.Pos.X,
			Y:    p.Pos.Y,
			Ship: NewShipState(p.Ship),
		})
	}
	return st
}
