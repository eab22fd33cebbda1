package ship

import (
	"log/slog"

	"github.com/nstehr/galacticon/equipment"
)

// WeaponSystem is one weapon slot on its carrying ship.
type WeaponSystem struct {
	Ship *Ship
	Slot *equipment.Slot
}

// Weapons returns the ship's weapon slots in layout order.
func (s *Ship) Weapons() []WeaponSystem {
	var out []WeaponSystem
	for _, e := range s.Equipment {
		if e.Kind.IsWeapon() {
			out = append(out, WeaponSystem{Ship: s, Slot: e})
		}
	}
	return out
}

// Power scales spec-derived damage by how much of the ship's output the
// weapon commands.
func (w WeaponSystem) Power() float64 {
	return w.Ship.Output(w.Slot) / TotalEquipmentStrength
}

// Range is the farthest distance at which the weapon still does damage.
func (w WeaponSystem) Range() float64 {
	spec := w.Slot.Spec
	switch w.Slot.Kind {
	case equipment.KindEnergyWeapon:
		return equipment.EnergyZeroRange(spec.Value(equipment.Focus))
	case equipment.KindMissile:
		return equipment.MissileRange(spec.Value(equipment.Speed))
	case equipment.KindProjectileWeapon:
		return equipment.ProjectileRange
	}
	return 0
}

// Damage is the raw damage the weapon delivers at distance, before any
// shield or armor.
func (w WeaponSystem) Damage(distance float64) float64 {
	spec := w.Slot.Spec
	if spec == nil {
		return 0
	}
	power := w.Power()
	switch w.Slot.Kind {
	case equipment.KindEnergyWeapon:
		return equipment.EnergyDamage(spec.Value(equipment.Focus), spec.Value(equipment.Force), distance) * power
	case equipment.KindProjectileWeapon:
		if distance > equipment.ProjectileRange {
			return 0
		}
		return spec.Value(equipment.Impact) * power
	case equipment.KindMissile:
		if distance > w.Range() {
			return 0
		}
		return spec.Value(equipment.Payload) * power
	}
	return 0
}

// Hit fires at target from distance, routing the damage through the
// target's shield, then armor, then its equipment. It reports whether this
// hit destroyed the target; a wreck takes no further damage.
func (w WeaponSystem) Hit(target *Ship, distance float64) bool {
	if target.Destroyed() {
		return false
	}
	dmg := w.Damage(distance)
	if dmg <= 0 {
		return false
	}
	target.syncDefenses()

	shield := target.layer(equipment.KindShield)
	armor := target.layer(equipment.KindArmor)

	var through float64
	switch w.Slot.Kind {
	case equipment.KindEnergyWeapon:
		through = absorb(armor, absorb(shield, dmg, 0, 0), 0, 0)
	case equipment.KindMissile:
		through = absorb(armor, 0, 0, absorb(shield, 0, 0, dmg))
	case equipment.KindProjectileWeapon:
		// Piercing rounds strain armor harder: scale up going in, back down coming out.
		mult := equipment.ArmorMultiplier(w.Slot.Spec.Value(equipment.Piercing))
		through = absorb(armor, 0, absorb(shield, 0, dmg, 0)*mult, 0) / mult
	}

	destroyed := false
	if through > 0 {
		destroyed = target.TakeDamage(through)
	}
	slog.Debug("weapon hit",
		"attacker", w.Ship.ID,
		"target", target.ID,
		"weapon", w.Slot.Name,
		"distance", distance,
		"damage", dmg,
		"through", through,
		"destroyed", destroyed,
	)
	return destroyed
}

// absorb runs one hit through layer; a ship without the layer takes it all.
func absorb(layer *equipment.DefenseLayer, energy, projectile, missile float64) float64 {
	if layer == nil {
		return energy + projectile + missile
	}
	return layer.TakeHit(energy, projectile, missile)
}

func (s *Ship) layer(kind equipment.Kind) *equipment.DefenseLayer {
	if slot := s.SlotOfKind(kind); slot != nil {
		return slot.Layer
	}
	return nil
}
