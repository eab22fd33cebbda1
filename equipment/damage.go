package equipment

const (
	// BaseZeroRange is the distance at which a zero-focus energy beam fades out.
	BaseZeroRange = 100.0
	// MaxZeroRange is the fade-out distance of a fully focused beam.
	MaxZeroRange = 500.0
	// PiercingDivisor sets how strongly piercing multiplies armor penetration.
	PiercingDivisor = 25.0
)

// EnergyZeroRange is the distance at which an energy weapon with the given
// focus deals no damage.
func EnergyZeroRange(focus float64) float64 {
	return BaseZeroRange + (MaxZeroRange-BaseZeroRange)*(focus/TotalSpecificationValue)
}

// EnergyDamage falls off linearly from force at range 0 to nothing at the
// zero range.
func EnergyDamage(focus, force, distance float64) float64 {
	zero := EnergyZeroRange(focus)
	if zero <= 0 {
		return 0
	}
	return force * max(0, 1-distance/zero)
}

// ArmorMultiplier is how many times over projectiles with this piercing
// value strain armor capacity.
func ArmorMultiplier(piercing float64) float64 {
	return 1 + piercing/PiercingDivisor
}

// ProjectileRange is the fixed reach of projectile weapons.
const ProjectileRange = MaxZeroRange

// MissileRange grows with the missile's Speed allocation over the same band
// as energy zero ranges. Missiles deal full payload anywhere inside it.
func MissileRange(speed float64) float64 {
	return EnergyZeroRange(speed)
}
