package ipc

// InvestCommand puts Count fixed increments (at least one) into a
// technology.
type InvestCommand struct {
	Tech  string `json:"tech"`
	Count int    `json:"count,omitempty"`
}

type BuildShipCommand struct {
	Name      string             `json:"name"`
	Size      float64            `json:"size"`
	Colonists int                `json:"colonists"`
	Troops    int                `json:"troops"`
	Strengths map[string]float64 `json:"strengths,omitempty"`
}

type SetStrengthCommand struct {
	ShipID int     `json:"ship_id"`
	Slot   string  `json:"slot"`
	Value  float64 `json:"value"`
}

type SetSpecCommand struct {
	ShipID int     `json:"ship_id"`
	Slot   string  `json:"slot"`
	Spec   string  `json:"spec"`
	Value  float64 `json:"value"`
}

// StartBattleCommand sends ships against a configured opponent. BattleID
// is optional; passing a previous battle's id replays its dice.
type StartBattleCommand struct {
	ShipIDs  []int  `json:"ship_ids"`
	Opponent string `json:"opponent"`
	BattleID string `json:"battle_id,omitempty"`
}

// BattleStepCommand advances a battle by Steps (at least one); a negative
// value runs it to the end.
type BattleStepCommand struct {
	BattleID string `json:"battle_id"`
	Steps    int    `json:"steps"`
}
