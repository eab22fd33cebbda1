package ipc

// Message types the UI client sends.
const (
	TypeHello       = "hello"
	TypeInvest      = "invest"
	TypeBuildShip   = "build_ship"
	TypeSetStrength = "set_strength"
	TypeSetSpec     = "set_spec"
	TypeStartBattle = "start_battle"
	TypeBattleStep  = "battle_step"
)

// Message types sent back.
const (
	TypeAck           = "ack"
	TypeError         = "error"
	TypeShipState     = "ship_state"
	TypeBattleState   = "battle_state"
	TypeResearchState = "research_state"
)

type HelloMessage struct {
	Player string `json:"player"`
	Race   string `json:"race"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// ErrorMessage answers a request that could not be served.
type ErrorMessage struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}
