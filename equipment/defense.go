package equipment

// Absorption is the fraction of each incoming damage category that a layer
// turns into capacity consumption. Absorbing d points of a category costs
// d*ratio capacity, so a 0.5 ratio stretches capacity twice as far.
type Absorption struct {
	Energy     float64
	Projectile float64
	Missile    float64
}

var (
	ShieldAbsorption = Absorption{Energy: 1.0, Projectile: 0.5, Missile: 0.5}
	ArmorAbsorption  = Absorption{Energy: 0.5, Projectile: 1.0, Missile: 1.0}
)

// DefenseLayer is a shield or armor belt. Strength is the maximum capacity
// (synced from the owning slot) and Degradation the capacity already spent.
type DefenseLayer struct {
	Strength    float64
	Degradation float64
	Absorption  Absorption
}

// NewShield returns an empty shield layer.
func NewShield() *DefenseLayer { return &DefenseLayer{Absorption: ShieldAbsorption} }

// NewArmor returns an empty armor layer.
func NewArmor() *DefenseLayer { return &DefenseLayer{Absorption: ArmorAbsorption} }

// Remaining is the unspent capacity.
func (l *DefenseLayer) Remaining() float64 {
	return max(l.Strength-l.Degradation, 0)
}

// SetStrength updates the maximum capacity, keeping Degradation within it.
func (l *DefenseLayer) SetStrength(strength float64) {
	l.Strength = max(strength, 0)
	if l.Degradation > l.Strength {
		l.Degradation = l.Strength
	}
}

// TakeHit absorbs energy, projectile and missile damage in that order and
// returns the total that passed through unabsorbed.
func (l *DefenseLayer) TakeHit(energy, projectile, missile float64) float64 {
	remaining := l.Remaining()
	through := 0.0
	for _, c := range [...]struct{ dmg, ratio float64 }{
		{energy, l.Absorption.Energy},
		{projectile, l.Absorption.Projectile},
		{missile, l.Absorption.Missile},
	} {
		if c.dmg <= 0 {
			continue
		}
		if remaining <= 0 || c.ratio <= 0 {
			through += c.dmg
			continue
		}
		consumed := min(c.dmg*c.ratio, remaining)
		absorbed := consumed / c.ratio
		l.Degradation += consumed
		remaining -= consumed
		through += max(c.dmg-absorbed, 0)
	}
	if l.Degradation > l.Strength {
		l.Degradation = l.Strength
	}
	return through
}

// Clone returns an independent copy.
func (l *DefenseLayer) Clone() *DefenseLayer {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
