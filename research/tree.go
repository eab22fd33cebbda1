package research

import (
	"errors"
	"fmt"
)

// Technology names. The first seven plus Sensors, Energy Systems and Stealth
// are also ship equipment lineages.
const (
	Propulsion        = "Propulsion"
	Armor             = "Armor"
	EnergyShields     = "Energy Shields"
	PointDefense      = "Point Defense"
	EnergyWeapons     = "Energy Weapons"
	Missiles          = "Missiles"
	ProjectileWeapons = "Projectile Weapons"
	Construction      = "Construction"
	Sensors           = "Sensors"
	Automation        = "Automation"
	EnergySystems     = "Energy Systems"
	PopulationGrowth  = "Population Growth"
	Terraforming      = "Terraforming"
	Espionage         = "Espionage"
	Stealth           = "Stealth"
)

// TechNames lists every technology in display order.
var TechNames = []string{
	Propulsion, Armor, EnergyShields, PointDefense, EnergyWeapons, Missiles,
	ProjectileWeapons, Construction, Sensors, Automation, EnergySystems,
	PopulationGrowth, Terraforming, Espionage, Stealth,
}

var (
	ErrNoRace      = errors.New("research tree requires a race")
	ErrUnknownTech = errors.New("unknown technology")
)

// Tree is a player's permanent research: one Track per technology plus the
// race whose bonuses apply to them. It is the source of truth that ships
// snapshot at construction.
type Tree struct {
	Race   *Race
	tracks []*Track
	byName map[string]*Track
}

// NewTree creates an unresearched tree for race.
func NewTree(race *Race) (*Tree, error) {
	if race == nil {
		return nil, ErrNoRace
	}
	t := &Tree{
		Race:   race,
		tracks: make([]*Track, 0, len(TechNames)),
		byName: make(map[string]*Track, len(TechNames)),
	}
	for _, name := range TechNames {
		tr := NewTrack(name)
		t.tracks = append(t.tracks, tr)
		t.byName[name] = tr
	}
	return t, nil
}

// Track returns the track for a technology.
func (t *Tree) Track(name string) (*Track, error) {
	tr, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTech, name)
	}
	return tr, nil
}

// Tracks returns all tracks in TechNames order.
func (t *Tree) Tracks() []*Track {
	return t.tracks
}

// Invest adds the fixed increment to a technology.
func (t *Tree) Invest(name string) error {
	tr, err := t.Track(name)
	if err != nil {
		return err
	}
	tr.Invest()
	return nil
}

// Efficiency is the race-adjusted efficiency of a technology.
func (t *Tree) Efficiency(name string) (float64, error) {
	tr, err := t.Track(name)
	if err != nil {
		return 0, err
	}
	return t.Race.Efficiency(tr), nil
}

// Clone deep-copies the tracks. The race is shared; it is never mutated.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		Race:   t.Race,
		tracks: make([]*Track, len(t.tracks)),
		byName: make(map[string]*Track, len(t.tracks)),
	}
	for i, tr := range t.tracks {
		cp := tr.Clone()
		c.tracks[i] = cp
		c.byName[cp.Name] = cp
	}
	return c
}
