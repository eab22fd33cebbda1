package battle

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/galacticon/ship"
)

// RuleSpec is a doctrine rule as written in configuration.
type RuleSpec struct {
	Name      string `yaml:"name" json:"name"`
	Priority  int    `yaml:"priority" json:"priority"`
	Condition string `yaml:"condition" json:"condition"`
	Tactic    string `yaml:"tactic" json:"tactic"`
}

// Rule pairs a compiled condition with the tactic it selects.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source
	Tactic       Tactic      // run when the condition holds
	program      *vm.Program // compiled bytecode
}

// DefaultRuleSpecs fires when some weapon can damage the closest adversary
// and advances otherwise.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{
			Name:      "fire",
			Priority:  200,
			Condition: `HasAdversary() && CanHitAdversary()`,
			Tactic:    TacticFireAtClosestAdversary,
		},
		{
			Name:      "advance",
			Priority:  100,
			Condition: `HasAdversary()`,
			Tactic:    TacticMoveToClosestAdversary,
		},
	}
}

// Doctrine picks the tactic each ship executes in a step.
type Doctrine struct {
	rules []*Rule
}

// NewDoctrine resolves each spec's tactic and compiles its condition into
// expr bytecode. Rules are kept sorted by priority, highest first.
func NewDoctrine(specs []RuleSpec) (*Doctrine, error) {
	rules := make([]*Rule, 0, len(specs))
	for _, s := range specs {
		t, err := LookupTactic(s.Tactic)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", s.Name, err)
		}
		rules = append(rules, &Rule{
			Name:         s.Name,
			Priority:     s.Priority,
			ConditionSrc: s.Condition,
			Tactic:       t,
		})
	}
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Doctrine{rules: compiled}, nil
}

// Rules returns the compiled rules in evaluation order.
func (d *Doctrine) Rules() []*Rule { return d.rules }

// Select evaluates the rules against env. Among the matching rules of the
// highest matching priority it returns the tactic with the greatest
// Confidence, the earlier rule winning ties. It returns nil when no rule
// matches.
func (d *Doctrine) Select(env TacticEnv) (Tactic, *Rule) {
	var best *Rule
	for _, r := range d.rules {
		if best != nil && r.Priority < best.Priority {
			break
		}
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("doctrine condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}
		if best == nil || r.Tactic.Confidence() > best.Tactic.Confidence() {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	return best.Tactic, best
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(TacticEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// TacticEnv is what doctrine conditions see of one ship's situation.
type TacticEnv struct {
	Ship *ship.Ship
	Map  *Map

	adversary *ship.Ship
	distance  float64
}

// NewTacticEnv captures s's situation on m.
func NewTacticEnv(s *ship.Ship, m *Map) (TacticEnv, error) {
	adversary, dist, err := m.ClosestAdversary(s)
	if err != nil {
		return TacticEnv{}, err
	}
	return TacticEnv{Ship: s, Map: m, adversary: adversary, distance: dist}, nil
}

func (e TacticEnv) HasAdversary() bool { return e.adversary != nil }

// AdversaryDistance is the distance to the closest adversary, or -1.
func (e TacticEnv) AdversaryDistance() float64 {
	if e.adversary == nil {
		return -1
	}
	return e.distance
}

// EngagementRange is the longest distance at which some weapon still
// deals damage. Weapons that deal none even point blank do not count.
func (e TacticEnv) EngagementRange() float64 {
	r := 0.0
	for _, w := range e.Ship.Weapons() {
		if w.Damage(0) > 0 {
			r = max(r, w.Range())
		}
	}
	return r
}

// CanHitAdversary reports whether any weapon deals damage at the closest
// adversary's distance.
func (e TacticEnv) CanHitAdversary() bool {
	if e.adversary == nil {
		return false
	}
	for _, w := range e.Ship.Weapons() {
		if w.Damage(e.distance) > 0 {
			return true
		}
	}
	return false
}

func (e TacticEnv) DamageRatio() float64 { return e.Ship.TotalDamageRatio() }

func (e TacticEnv) AdversaryDamageRatio() float64 {
	if e.adversary == nil {
		return 0
	}
	return e.adversary.TotalDamageRatio()
}

func (e TacticEnv) Speed() float64 { return e.Ship.Speed() }

// AllyCount counts ships on the map owned by the same player, this one
// included.
func (e TacticEnv) AllyCount() int {
	n := 0
	for _, p := range e.Map.placements {
		if p.Ship.Owner == e.Ship.Owner {
			n++
		}
	}
	return n
}

func (e TacticEnv) AdversaryCount() int {
	n := 0
	for _, p := range e.Map.placements {
		if p.Ship.Owner != e.Ship.Owner {
			n++
		}
	}
	return n
}
