// Package session serves one client connection: the player's research,
// their fleet and the battles they start.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nstehr/galacticon/battle"
	"github.com/nstehr/galacticon/config"
	"github.com/nstehr/galacticon/ipc"
	"github.com/nstehr/galacticon/model"
	"github.com/nstehr/galacticon/research"
	"github.com/nstehr/galacticon/ship"
)

var (
	ErrNoPlayer        = errors.New("hello required before other requests")
	ErrUnknownRace     = errors.New("unknown race")
	ErrUnknownShip     = errors.New("unknown ship")
	ErrUnknownOpponent = errors.New("unknown opponent")
	ErrUnknownBattle   = errors.New("unknown battle")
	ErrNoShips         = errors.New("battle needs at least one ship")
	ErrShipEngaged     = errors.New("ship already in an unresolved battle")
	ErrInvestTooLarge  = errors.New("investment count above the per-request limit")
)

// Session owns the game state of a single player. Requests on one
// connection are handled in order, so no locking is needed.
type Session struct {
	Conn   *ipc.Connection
	Player string
	Tree   *research.Tree

	ctx      context.Context
	cfg      *config.Config
	doctrine *battle.Doctrine
	ships    map[int]*ship.Ship
	nextID   int
	battles  map[uuid.UUID]*battle.Battle
}

// New creates a session. ctx bounds every battle the session runs.
func New(ctx context.Context, conn *ipc.Connection, cfg *config.Config, doctrine *battle.Doctrine) *Session {
	return &Session{
		Conn:     conn,
		ctx:      ctx,
		cfg:      cfg,
		doctrine: doctrine,
		ships:    make(map[int]*ship.Ship),
		nextID:   1,
		battles:  make(map[uuid.UUID]*battle.Battle),
	}
}

// Register installs the session's handlers on its connection.
func (s *Session) Register() {
	s.Conn.RegisterHandler(ipc.TypeHello, s.HandleHello)
	s.Conn.RegisterHandler(ipc.TypeInvest, s.HandleInvest)
	s.Conn.RegisterHandler(ipc.TypeBuildShip, s.HandleBuildShip)
	s.Conn.RegisterHandler(ipc.TypeSetStrength, s.HandleSetStrength)
	s.Conn.RegisterHandler(ipc.TypeSetSpec, s.HandleSetSpec)
	s.Conn.RegisterHandler(ipc.TypeStartBattle, s.HandleStartBattle)
	s.Conn.RegisterHandler(ipc.TypeBattleStep, s.HandleBattleStep)
}

// HandleHello identifies the player and gives them an unresearched tree
// for their race.
func (s *Session) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}
	race, ok := s.cfg.Race(hello.Race)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRace, hello.Race)
	}
	tree, err := research.NewTree(race)
	if err != nil {
		return nil, err
	}

	s.Player = hello.Player
	s.Tree = tree
	if s.Conn != nil {
		s.Conn.Player = hello.Player
	}
	slog.Info("player identified", "player", s.Player, "race", race.Name)

	return reply(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
}

func (s *Session) HandleInvest(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.InvestCommand
	if err := s.decode(env, &cmd); err != nil {
		return nil, err
	}
	if limit := s.cfg.Research.MaxInvestPerRequest; cmd.Count > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvestTooLarge, cmd.Count, limit)
	}
	for range max(cmd.Count, 1) {
		if err := s.Tree.Invest(cmd.Tech); err != nil {
			return nil, err
		}
	}
	return reply(ipc.TypeResearchState, model.NewResearchState(s.Tree))
}

// HandleBuildShip builds a ship from the player's current research. Later
// research does not change ships already built.
func (s *Session) HandleBuildShip(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.BuildShipCommand
	if err := s.decode(env, &cmd); err != nil {
		return nil, err
	}
	sh, err := ship.Build(s.nextID, s.Player, s.Tree, ship.Blueprint{
		Name:      cmd.Name,
		Size:      cmd.Size,
		Colonists: cmd.Colonists,
		Troops:    cmd.Troops,
		Strengths: cmd.Strengths,
	}, nil)
	if err != nil {
		return nil, err
	}
	s.ships[sh.ID] = sh
	s.nextID++
	slog.Info("ship commissioned", "player", s.Player, "ship", sh.ID, "name", sh.Name, "size", sh.Size)
	return reply(ipc.TypeShipState, model.NewShipState(sh))
}

func (s *Session) HandleSetStrength(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.SetStrengthCommand
	if err := s.decode(env, &cmd); err != nil {
		return nil, err
	}
	sh, err := s.ship(cmd.ShipID)
	if err != nil {
		return nil, err
	}
	if sh.Slot(cmd.Slot) == nil {
		return nil, fmt.Errorf("%w: %q", ship.ErrUnknownSlot, cmd.Slot)
	}
	sh.SetEquipmentStrength(cmd.Slot, cmd.Value)
	return reply(ipc.TypeShipState, model.NewShipState(sh))
}

func (s *Session) HandleSetSpec(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.SetSpecCommand
	if err := s.decode(env, &cmd); err != nil {
		return nil, err
	}
	sh, err := s.ship(cmd.ShipID)
	if err != nil {
		return nil, err
	}
	if err := sh.SetSpecificationValue(cmd.Slot, cmd.Spec, cmd.Value); err != nil {
		return nil, err
	}
	return reply(ipc.TypeShipState, model.NewShipState(sh))
}

// HandleStartBattle sends the chosen ships, as aggressors, against a
// configured opponent's fleet.
func (s *Session) HandleStartBattle(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.StartBattleCommand
	if err := s.decode(env, &cmd); err != nil {
		return nil, err
	}
	if len(cmd.ShipIDs) == 0 {
		return nil, ErrNoShips
	}

	id := uuid.New()
	if cmd.BattleID != "" {
		parsed, err := uuid.Parse(cmd.BattleID)
		if err != nil {
			return nil, fmt.Errorf("parse battle id: %w", err)
		}
		id = parsed
	}
	if b, ok := s.battles[id]; ok && !b.Resolved() {
		return nil, fmt.Errorf("battle %s is still running", id)
	}

	aggressors := make([]*ship.Ship, 0, len(cmd.ShipIDs))
	for _, shipID := range cmd.ShipIDs {
		sh, err := s.ship(shipID)
		if err != nil {
			return nil, err
		}
		if s.engaged(sh) {
			return nil, fmt.Errorf("%w: %d", ErrShipEngaged, shipID)
		}
		aggressors = append(aggressors, sh)
	}

	defenders, err := s.opponentFleet(cmd.Opponent)
	if err != nil {
		return nil, err
	}

	b := battle.New(id, aggressors, defenders, s.doctrine, s.cfg.Battle.MaxSteps)
	s.battles[id] = b
	slog.Info("battle started", "player", s.Player, "battle", id, "opponent", cmd.Opponent)
	return reply(ipc.TypeBattleState, model.NewBattleState(b))
}

// HandleBattleStep advances a battle. Once it resolves, the player's
// destroyed ships leave their fleet.
func (s *Session) HandleBattleStep(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.BattleStepCommand
	if err := s.decode(env, &cmd); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(cmd.BattleID)
	if err != nil {
		return nil, fmt.Errorf("parse battle id: %w", err)
	}
	b, ok := s.battles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBattle, id)
	}
	if b.Resolved() {
		return nil, battle.ErrResolved
	}

	n := max(cmd.Steps, 1)
	if cmd.Steps < 0 {
		n = 0
	}
	if err := b.Run(s.ctx, n); err != nil {
		return nil, err
	}

	st := model.NewBattleState(b)
	if b.Resolved() {
		for shipID, sh := range s.ships {
			if sh.Destroyed() {
				delete(s.ships, shipID)
				slog.Info("ship lost", "player", s.Player, "ship", shipID, "name", sh.Name)
			}
		}
	}
	return reply(ipc.TypeBattleState, st)
}

// Ships returns the player's fleet.
func (s *Session) Ships() *ship.Fleet {
	f := &ship.Fleet{Owner: s.Player}
	for id := 1; id < s.nextID; id++ {
		if sh, ok := s.ships[id]; ok {
			f.Ships = append(f.Ships, sh)
		}
	}
	return f
}

// decode rejects requests before hello, then unmarshals the payload.
func (s *Session) decode(env ipc.Envelope, v any) error {
	if s.Tree == nil {
		return ErrNoPlayer
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", env.Type, err)
	}
	return nil
}

func (s *Session) ship(id int) (*ship.Ship, error) {
	sh, ok := s.ships[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShip, id)
	}
	return sh, nil
}

func (s *Session) engaged(sh *ship.Ship) bool {
	for _, b := range s.battles {
		if b.Resolved() {
			continue
		}
		if _, err := b.Map.Position(sh); err == nil {
			return true
		}
	}
	return false
}

// opponentFleet researches and builds a fresh fleet for the named opponent.
// Its ships get negative ids so they never collide with the player's.
func (s *Session) opponentFleet(name string) ([]*ship.Ship, error) {
	opp, ok := s.cfg.Opponent(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOpponent, name)
	}
	race, ok := s.cfg.Race(opp.Race)
	if !ok {
		return nil, fmt.Errorf("opponent %q: %w: %q", name, ErrUnknownRace, opp.Race)
	}
	tree, err := research.NewTree(race)
	if err != nil {
		return nil, err
	}
	for tech, n := range opp.Research {
		for range n {
			if err := tree.Invest(tech); err != nil {
				return nil, fmt.Errorf("opponent %q: %w", name, err)
			}
		}
	}

	fleet := make([]*ship.Ship, 0, len(opp.Fleet))
	for i, bp := range opp.Fleet {
		sh, err := ship.Build(-(i + 1), opp.Name, tree, bp, nil)
		if err != nil {
			return nil, fmt.Errorf("opponent %q: %w", name, err)
		}
		fleet = append(fleet, sh)
	}
	if len(fleet) == 0 {
		return nil, fmt.Errorf("opponent %q: %w", name, ErrNoShips)
	}
	return fleet, nil
}

func reply(msgType string, data any) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		return nil, err
	}
	return &env, nil
}
