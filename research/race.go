package research

// BonusEntry boosts one technology's efficiency by a fraction (0.2 = +20%).
type BonusEntry struct {
	TechName string  `yaml:"tech" json:"tech"`
	Bonus    float64 `yaml:"bonus" json:"bonus"`
}

// Race is the playable species a player picked. Only the data the combat
// core needs is kept here; portraits and animations live in the UI.
type Race struct {
	Name           string       `yaml:"name" json:"name"`
	HomeWorldTypes []string     `yaml:"home_world_types" json:"homeWorldTypes"`
	ResearchBonus  []BonusEntry `yaml:"research_bonus" json:"researchBonus"`
}

// Bonus returns the race's bonus for tech and whether one exists.
func (r *Race) Bonus(tech string) (float64, bool) {
	for _, b := range r.ResearchBonus {
		if b.TechName == tech {
			return b.Bonus, true
		}
	}
	return 0, false
}

// Efficiency applies the race bonus to a track's base efficiency.
func (r *Race) Efficiency(t *Track) float64 {
	if b, ok := r.Bonus(t.Name); ok {
		return t.Efficiency() * (1 + b)
	}
	return t.Efficiency()
}

// PlanetHabitability adjusts a planet's habitability for this race: home
// world types gain 0.4 and are never worse than 1.0.
func (r *Race) PlanetHabitability(planetType string, habitability float64) float64 {
	for _, t := range r.HomeWorldTypes {
		if t == planetType {
			return max(habitability+0.4, 1.0)
		}
	}
	return habitability
}
