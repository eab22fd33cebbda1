// Package equipment holds the per-ship capability records: slots with their
// strength share and efficiency, specification sub-allocations, and the
// shield/armor absorption model.
package equipment

import "github.com/nstehr/galacticon/research"

// Kind selects how a slot behaves in combat.
type Kind int

const (
	Passive Kind = iota
	KindArmor
	KindShield
	KindEnergyWeapon
	KindProjectileWeapon
	KindMissile
)

func (k Kind) String() string {
	switch k {
	case KindArmor:
		return "armor"
	case KindShield:
		return "shield"
	case KindEnergyWeapon:
		return "energy_weapon"
	case KindProjectileWeapon:
		return "projectile_weapon"
	case KindMissile:
		return "missile"
	default:
		return "passive"
	}
}

// IsWeapon reports whether slots of this kind fire.
func (k Kind) IsWeapon() bool {
	return k == KindEnergyWeapon || k == KindProjectileWeapon || k == KindMissile
}

// Layout describes one equipment slot a ship is built with. Tech is the
// research lineage its efficiency comes from.
type Layout struct {
	Name string
	Tech string
	Kind Kind
}

// ShipLayout is the fixed slot order of every ship.
var ShipLayout = []Layout{
	{research.Propulsion, research.Propulsion, Passive},
	{research.Armor, research.Armor, KindArmor},
	{research.EnergyShields, research.EnergyShields, KindShield},
	{research.PointDefense, research.PointDefense, Passive},
	{research.EnergyWeapons, research.EnergyWeapons, KindEnergyWeapon},
	{research.Missiles, research.Missiles, KindMissile},
	{research.ProjectileWeapons, research.ProjectileWeapons, KindProjectileWeapon},
	{research.Sensors, research.Sensors, Passive},
	{research.EnergySystems, research.EnergySystems, Passive},
	{research.Stealth, research.Stealth, Passive},
}

// Slot is one capability of a ship.
//
// Efficiency starts equal to StartEfficiency and only ever goes down (to a
// floor of 0) as the ship takes damage.
type Slot struct {
	Name            string
	Tech            string
	Kind            Kind
	Strength        float64
	Efficiency      float64
	StartEfficiency float64
	Spec            *Spec
	Layer           *DefenseLayer
}

// NewSlot builds a slot for layout with the given starting efficiency,
// attaching the spec or defense layer its kind needs.
func NewSlot(l Layout, efficiency float64) *Slot {
	s := &Slot{
		Name:            l.Name,
		Tech:            l.Tech,
		Kind:            l.Kind,
		Efficiency:      efficiency,
		StartEfficiency: efficiency,
	}
	switch l.Kind {
	case KindArmor:
		s.Layer = NewArmor()
	case KindShield:
		s.Layer = NewShield()
	case KindEnergyWeapon:
		s.Spec = NewSpec(Focus, Force)
	case KindProjectileWeapon:
		s.Spec = NewSpec(Piercing, Impact)
	case KindMissile:
		s.Spec = NewSpec(Speed, Armor, Payload)
	}
	return s
}

// TotalStrength is the slot's effective output, Strength * Efficiency.
func (s *Slot) TotalStrength() float64 {
	return s.Strength * s.Efficiency
}

// Degrade lowers efficiency by up to amount and returns how much was taken.
func (s *Slot) Degrade(amount float64) float64 {
	if amount <= 0 || s.Efficiency <= 0 {
		return 0
	}
	taken := min(amount, s.Efficiency)
	s.Efficiency -= taken
	if s.Efficiency < 0 {
		s.Efficiency = 0
	}
	return taken
}

// Clone deep-copies the slot including its spec and layer state.
func (s *Slot) Clone() *Slot {
	c := *s
	c.Spec = s.Spec.Clone()
	c.Layer = s.Layer.Clone()
	return &c
}
