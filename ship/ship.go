// Package ship builds combat ships from a player's research and resolves
// damage against them.
package ship

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/nstehr/galacticon/alloc"
	"github.com/nstehr/galacticon/equipment"
	"github.com/nstehr/galacticon/research"
)

const (
	// TotalEquipmentStrength is the budget every ship splits across its slots.
	TotalEquipmentStrength = 100

	MinSize = 1
	MaxSize = 100

	// Below this damage ratio a ship risks destruction on every hit.
	criticalDamageRatio = 0.5
	cargoWeight         = 0.1
	fullEnergy          = 100.0
)

var ErrUnknownSlot = errors.New("unknown equipment slot")

// Rand is the randomness a ship and a battle draw from. *rand.Rand from
// math/rand/v2 satisfies it; tests pass seeded or scripted sources.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Blueprint is what the operator commits when ordering a ship.
type Blueprint struct {
	Name      string             `yaml:"name" json:"name"`
	Size      float64            `yaml:"size" json:"size"`
	Colonists int                `yaml:"colonists" json:"colonists"`
	Troops    int                `yaml:"troops" json:"troops"`
	Strengths map[string]float64 `yaml:"strengths" json:"strengths,omitempty"`
}

// Ship aggregates one equipment slot per capability. Equipment strengths
// always sum to TotalEquipmentStrength once the ship is built.
type Ship struct {
	ID          int
	Owner       string
	Name        string
	Size        float64
	Colonists   int
	Troops      int
	EnergyLevel float64
	Equipment   []*equipment.Slot

	rng       Rand
	destroyed bool
}

// Build snapshots tree's race-adjusted efficiencies into a new ship with
// equal strength shares, then applies the blueprint's strength overrides in
// layout order. A nil rng gets a freshly seeded source.
func Build(id int, owner string, tree *research.Tree, bp Blueprint, rng Rand) (*Ship, error) {
	if tree == nil || tree.Race == nil {
		return nil, research.ErrNoRace
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Ship{
		ID:          id,
		Owner:       owner,
		Name:        bp.Name,
		Size:        clamp(bp.Size, MinSize, MaxSize),
		Colonists:   max(bp.Colonists, 0),
		Troops:      max(bp.Troops, 0),
		EnergyLevel: fullEnergy,
		Equipment:   make([]*equipment.Slot, 0, len(equipment.ShipLayout)),
		rng:         rng,
	}

	shares := alloc.Even(len(equipment.ShipLayout), TotalEquipmentStrength)
	for i, l := range equipment.ShipLayout {
		eff, err := tree.Efficiency(l.Tech)
		if err != nil {
			return nil, fmt.Errorf("build ship %q: %w", bp.Name, err)
		}
		slot := equipment.NewSlot(l, eff)
		slot.Strength = float64(shares[i])
		s.Equipment = append(s.Equipment, slot)
	}

	for _, l := range equipment.ShipLayout {
		if v, ok := bp.Strengths[l.Name]; ok {
			s.SetEquipmentStrength(l.Name, v)
		}
	}
	s.syncDefenses()

	slog.Debug("ship built", "id", id, "owner", owner, "name", s.Name, "size", s.Size)
	return s, nil
}

// SetRand swaps the ship's random source, e.g. for a seeded battle.
func (s *Ship) SetRand(r Rand) { s.rng = r }

// Destroyed reports whether damage resolution has destroyed the ship.
func (s *Ship) Destroyed() bool { return s.destroyed }

// Slot returns the slot called name, or nil.
func (s *Ship) Slot(name string) *equipment.Slot {
	for _, e := range s.Equipment {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (s *Ship) slotIndex(name string) int {
	for i, e := range s.Equipment {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// SlotOfKind returns the first slot of kind, or nil.
func (s *Ship) SlotOfKind(kind equipment.Kind) *equipment.Slot {
	for _, e := range s.Equipment {
		if e.Kind == kind {
			return e
		}
	}
	return nil
}

func (s *Ship) Propulsion() *equipment.Slot { return s.Slot(research.Propulsion) }

// SetEquipmentStrength moves one strength slider and rescales the others so
// the total stays TotalEquipmentStrength. Unknown names are ignored.
func (s *Ship) SetEquipmentStrength(name string, value float64) {
	idx := s.slotIndex(name)
	if idx < 0 {
		return
	}
	value = clamp(value, 0, TotalEquipmentStrength)
	current := make([]int, len(s.Equipment))
	for i, e := range s.Equipment {
		current[i] = int(math.Round(e.Strength))
	}
	next := alloc.Distribute(current, idx, int(math.Round(value)), TotalEquipmentStrength)
	for i, e := range s.Equipment {
		e.Strength = float64(next[i])
	}
	s.syncDefenses()
}

// SetSpecificationValue moves a specification slider inside one slot.
func (s *Ship) SetSpecificationValue(slotName, specName string, value float64) error {
	slot := s.Slot(slotName)
	if slot == nil {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slotName)
	}
	if slot.Spec == nil || slot.Spec.Index(specName) < 0 {
		return fmt.Errorf("%w: %q has no specification %q", ErrUnknownSlot, slotName, specName)
	}
	slot.Spec.Set(specName, value)
	return nil
}

// TotalStrength sums Strength across slots.
func (s *Ship) TotalStrength() float64 {
	total := 0.0
	for _, e := range s.Equipment {
		total += e.Strength
	}
	return total
}

// Output is a slot's effective output scaled by hull size; it sizes both
// weapon damage and defense layer capacity.
func (s *Ship) Output(slot *equipment.Slot) float64 {
	return slot.TotalStrength() * s.Size
}

// TotalDamageRatio is sum(Efficiency)/sum(StartEfficiency): 1 when pristine,
// 0 when every slot is exhausted.
func (s *Ship) TotalDamageRatio() float64 {
	var eff, start float64
	for _, e := range s.Equipment {
		eff += e.Efficiency
		start += e.StartEfficiency
	}
	if start == 0 {
		return 0
	}
	return eff / start
}

// TakeDamage spreads damage (normalized by hull size) over randomly chosen
// working slots, then rolls for destruction once the damage ratio falls
// below one half. It reports whether the ship is destroyed.
func (s *Ship) TakeDamage(damage float64) bool {
	if s.destroyed {
		return true
	}
	if damage <= 0 || math.IsNaN(damage) {
		return false
	}
	remaining := damage / max(s.Size, MinSize)

	pool := make([]*equipment.Slot, 0, len(s.Equipment))
	for _, e := range s.Equipment {
		if e.Efficiency > 0 {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		s.destroyed = true
		return true
	}

	for remaining > 0 && len(pool) > 0 {
		i := s.rng.IntN(len(pool))
		remaining -= pool[i].Degrade(remaining)
		if pool[i].Efficiency <= 0 {
			pool = append(pool[:i], pool[i+1:]...)
		}
	}
	s.syncDefenses()

	ratio := s.TotalDamageRatio()
	if ratio < criticalDamageRatio {
		chance := 1 - ratio/criticalDamageRatio
		if s.rng.Float64() < chance {
			s.destroyed = true
			slog.Info("ship destroyed", "id", s.ID, "owner", s.Owner, "ratio", ratio)
		}
	}
	return s.destroyed
}

// Weight is hull size plus a tenth per colonist and trooper aboard.
func (s *Ship) Weight() float64 {
	return s.Size + float64(s.Colonists)*cargoWeight + float64(s.Troops)*cargoWeight
}

// SpeedFactor penalizes carrying cargo.
func (s *Ship) SpeedFactor() float64 {
	w := s.Weight()
	if w == 0 {
		return 0
	}
	return s.Size / w
}

// Speed is the map distance the ship covers in one step.
func (s *Ship) Speed() float64 {
	p := s.Propulsion()
	if p == nil {
		return 0
	}
	return p.TotalStrength() * s.SpeedFactor()
}

// Clone duplicates the ship, damage state included, under a new id.
func (s *Ship) Clone(id int) *Ship {
	c := *s
	c.ID = id
	c.Equipment = make([]*equipment.Slot, len(s.Equipment))
	for i, e := range s.Equipment {
		c.Equipment[i] = e.Clone()
	}
	return &c
}

// syncDefenses keeps each defense layer's capacity tied to its slot output.
func (s *Ship) syncDefenses() {
	for _, e := range s.Equipment {
		if e.Layer != nil {
			e.Layer.SetStrength(s.Output(e))
		}
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
