package battle

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/nstehr/galacticon/ship"
	"lukechampine.com/blake3"
)

// DefaultMaxSteps bounds a battle that never loses a camp.
const DefaultMaxSteps = 200

// Battle lifecycle states and events.
const (
	StateDeployed = "deployed"
	StateEngaged  = "engaged"
	StateResolved = "resolved"

	eventEngage  = "engage"
	eventResolve = "resolve"
)

var ErrResolved = errors.New("battle already resolved")

// Battle is one fight between two camps. It owns its map and its random
// source; every ship in it draws damage rolls from that source, so a
// battle replays identically from its id.
type Battle struct {
	ID  uuid.UUID
	Map *Map

	doctrine *Doctrine
	maxSteps int
	steps    int
	winner   *Side
	fsm      *fsm.FSM
}

// SeedFromID derives the PCG seed of a battle from BLAKE3 of its id.
func SeedFromID(id uuid.UUID) (uint64, uint64) {
	sum := blake3.Sum256(id[:])
	return binary.LittleEndian.Uint64(sum[0:8]), binary.LittleEndian.Uint64(sum[8:16])
}

// New deploys aggressors and defenders onto a fresh map. A maxSteps of 0
// or less means DefaultMaxSteps.
func New(id uuid.UUID, aggressors, defenders []*ship.Ship, d *Doctrine, maxSteps int) *Battle {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	rng := rand.New(rand.NewPCG(SeedFromID(id)))
	for _, s := range aggressors {
		s.SetRand(rng)
	}
	for _, s := range defenders {
		s.SetRand(rng)
	}

	b := &Battle{
		ID:       id,
		Map:      NewMap(aggressors, defenders, rng),
		doctrine: d,
		maxSteps: maxSteps,
	}
	b.fsm = fsm.NewFSM(
		StateDeployed,
		fsm.Events{
			{Name: eventEngage, Src: []string{StateDeployed}, Dst: StateEngaged},
			{Name: eventResolve, Src: []string{StateDeployed, StateEngaged}, Dst: StateResolved},
		},
		fsm.Callbacks{
			"enter_" + StateResolved: func(_ context.Context, _ *fsm.Event) {
				winner := "none"
				if b.winner != nil {
					winner = b.winner.String()
				}
				slog.Info("battle resolved", "battle", b.ID, "steps", b.steps, "winner", winner)
			},
		},
	)
	slog.Info("battle deployed", "battle", id, "aggressors", len(aggressors), "defenders", len(defenders))
	return b
}

// State is the lifecycle state: deployed, engaged or resolved.
func (b *Battle) State() string { return b.fsm.Current() }

func (b *Battle) Resolved() bool { return b.fsm.Is(StateResolved) }

// Steps is the number of steps run so far.
func (b *Battle) Steps() int { return b.steps }

func (b *Battle) MaxSteps() int { return b.maxSteps }

// Winner returns the surviving camp once the battle is resolved. A
// stalemate or mutual destruction has no winner.
func (b *Battle) Winner() (Side, bool) {
	if b.winner == nil {
		return 0, false
	}
	return *b.winner, true
}

// Step lets every ship still on the map execute the tactic its doctrine
// selects, one ship at a time in map order, then checks whether the
// battle is over.
func (b *Battle) Step(ctx context.Context) error {
	if b.Resolved() {
		return ErrResolved
	}
	if b.fsm.Is(StateDeployed) {
		if err := b.fsm.Event(ctx, eventEngage); err != nil {
			return fmt.Errorf("engage battle %s: %w", b.ID, err)
		}
	}
	b.steps++

	for _, p := range b.Map.AllPositions() {
		s := p.Ship
		if _, err := b.Map.Position(s); err != nil {
			// Destroyed earlier in this step.
			continue
		}
		env, err := NewTacticEnv(s, b.Map)
		if err != nil {
			return err
		}
		t, rule := b.doctrine.Select(env)
		if t == nil {
			continue
		}
		acted, err := t.Act(s, b.Map)
		if err != nil {
			return fmt.Errorf("ship %d tactic %s: %w", s.ID, t.Name(), err)
		}
		slog.Debug("tactic executed",
			"battle", b.ID,
			"step", b.steps,
			"ship", s.ID,
			"rule", rule.Name,
			"tactic", t.Name(),
			"acted", acted,
		)
	}
	return b.checkResolution(ctx)
}

// Run steps the battle until it resolves, n steps have run, or ctx is
// done. n <= 0 runs to resolution.
func (b *Battle) Run(ctx context.Context, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		if b.Resolved() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Battle) checkResolution(ctx context.Context) error {
	aggressors := len(b.Map.Ships(Aggressor))
	defenders := len(b.Map.Ships(Defender))
	switch {
	case aggressors == 0 && defenders == 0:
	case aggressors == 0:
		w := Defender
		b.winner = &w
	case defenders == 0:
		w := Aggressor
		b.winner = &w
	case b.steps >= b.maxSteps:
	default:
		return nil
	}
	if err := b.fsm.Event(ctx, eventResolve); err != nil {
		return fmt.Errorf("resolve battle %s: %w", b.ID, err)
	}
	return nil
}
