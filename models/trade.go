package models

import "time"

type TradeStatus string

const (
	TradeStatusProposed TradeStatus = "proposed"
	TradeStatusAccepted TradeStatus = "accepted"
	TradeStatusReversed TradeStatus = "reversed"
	TradeStatusRejected TradeStatus = "rejected"
)

type TradeItemKind string

const (
	TradeItemPlayer TradeItemKind = "player"
	TradeItemPick   TradeItemKind = "pick"
	TradeItemCash   TradeItemKind = "cash"
)

type Trade struct {
	ID         int         `json:"id" db:"id"`
	LeagueID   int         `json:"league_id" db:"league_id"`
	FromTeamID int         `json:"from_team_id" db:"from_team_id"`
	ToTeamID   int         `json:"to_team_id" db:"to_team_id"`
	CreatedBy  *int        `json:"created_by,omitempty" db:"created_by"`
	Status     TradeStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`

	Items []TradeItem `json:"items,omitempty" db:"-"`
}

// TradeItem — размеченное объединение: в зависимости от Kind заполнено ровно
// одно из PlayerID, PickID, CashAmount. Направление у каждой позиции своё.
type TradeItem struct {
	ID         int           `json:"id" db:"id"`
	TradeID    int           `json:"trade_id" db:"trade_id"`
	Kind       TradeItemKind `json:"kind" db:"kind"`
	PlayerID   *int          `json:"player_id,omitempty" db:"player_id"`
	PickID     *int          `json:"pick_id,omitempty" db:"pick_id"`
	CashAmount *int64        `json:"cash_amount,omitempty" db:"cash_amount"`
	FromTeamID int           `json:"from_team_id" db:"from_team_id"`
	ToTeamID   int           `json:"to_team_id" db:"to_team_id"`
}
