// Package config loads the server configuration: where to listen, how hard
// clients may push, which races exist, which opponents a player can fight
// and the doctrine every ship follows in battle.
package config

import (
	"fmt"
	"os"

	"github.com/nstehr/galacticon/battle"
	"github.com/nstehr/galacticon/research"
	"github.com/nstehr/galacticon/ship"
	"gopkg.in/yaml.v3"
)

const DefaultSocket = "/tmp/galacticon.sock"

type Config struct {
	Socket            string            `yaml:"socket"`
	Rate              RateConfig        `yaml:"rate"`
	CompressThreshold int               `yaml:"compress_threshold"`
	Races             []research.Race   `yaml:"races"`
	Opponents         []Opponent        `yaml:"opponents"`
	Doctrine          []battle.RuleSpec `yaml:"doctrine"`
	Battle            BattleConfig      `yaml:"battle"`
	Research          ResearchConfig    `yaml:"research"`
}

// RateConfig caps requests per connection.
type RateConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type BattleConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

// ResearchConfig bounds how much research one request may buy.
type ResearchConfig struct {
	MaxInvestPerRequest int `yaml:"max_invest_per_request"`
}

// Opponent is a computer-controlled player a session can start a battle
// against. Research counts how many fixed increments were invested per
// technology before its fleet is built.
type Opponent struct {
	Name     string           `yaml:"name"`
	Race     string           `yaml:"race"`
	Research map[string]int   `yaml:"research"`
	Fleet    []ship.Blueprint `yaml:"fleet"`
}

// Default returns a playable configuration with two races and one
// opponent.
func Default() Config {
	return Config{
		Socket:            DefaultSocket,
		Rate:              RateConfig{PerSecond: 20, Burst: 40},
		CompressThreshold: 4096,
		Races: []research.Race{
			{
				Name:           "Terran",
				HomeWorldTypes: []string{"Terrestrial", "Ocean"},
				ResearchBonus: []research.BonusEntry{
					{TechName: research.Construction, Bonus: 0.2},
					{TechName: research.PopulationGrowth, Bonus: 0.1},
				},
			},
			{
				Name:           "Vesk",
				HomeWorldTypes: []string{"Desert", "Lava"},
				ResearchBonus: []research.BonusEntry{
					{TechName: research.ProjectileWeapons, Bonus: 0.25},
					{TechName: research.Armor, Bonus: 0.15},
				},
			},
		},
		Opponents: []Opponent{
			{
				Name: "Vesk Raiders",
				Race: "Vesk",
				Research: map[string]int{
					research.ProjectileWeapons: 10,
					research.Armor:             5,
					research.Propulsion:        5,
				},
				Fleet: []ship.Blueprint{
					{Name: "Raider", Size: 8, Strengths: map[string]float64{research.ProjectileWeapons: 30}},
					{Name: "Raider", Size: 8, Strengths: map[string]float64{research.ProjectileWeapons: 30}},
					{Name: "Bulwark", Size: 20, Strengths: map[string]float64{research.Armor: 35}},
				},
			},
		},
		Doctrine: battle.DefaultRuleSpecs(),
		Battle:   BattleConfig{MaxSteps: battle.DefaultMaxSteps},
		Research: ResearchConfig{MaxInvestPerRequest: 100},
	}
}

// Load reads a YAML file over the defaults. Sections the file leaves out
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Validate clamps every tunable to its usable range.
func (c *Config) Validate() {
	if c.Socket == "" {
		c.Socket = DefaultSocket
	}
	c.Rate.PerSecond = clamp(c.Rate.PerSecond, 1, 1000)
	c.Rate.Burst = clampInt(c.Rate.Burst, 1, 10000)
	c.CompressThreshold = max(c.CompressThreshold, 0)
	c.Battle.MaxSteps = clampInt(c.Battle.MaxSteps, 1, 10000)
	c.Research.MaxInvestPerRequest = clampInt(c.Research.MaxInvestPerRequest, 1, 10000)
	if len(c.Doctrine) == 0 {
		c.Doctrine = battle.DefaultRuleSpecs()
	}
	for i := range c.Opponents {
		for tech, n := range c.Opponents[i].Research {
			c.Opponents[i].Research[tech] = clampInt(n, 0, 10000)
		}
	}
}

// Race looks up a race by name.
func (c *Config) Race(name string) (*research.Race, bool) {
	for i := range c.Races {
		if c.Races[i].Name == name {
			return &c.Races[i], true
		}
	}
	return nil, false
}

// Opponent looks up an opponent by name.
func (c *Config) Opponent(name string) (*Opponent, bool) {
	for i := range c.Opponents {
		if c.Opponents[i].Name == name {
			return &c.Opponents[i], true
		}
	}
	return nil, false
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
