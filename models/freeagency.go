package models

import "time"

type BidStatus string

const (
	BidStatusOpen    BidStatus = "open"
	BidStatusWon     BidStatus = "won"
	BidStatusLost    BidStatus = "lost"
	BidStatusExpired BidStatus = "expired"
)

// FreeAgencyBid покрывает оба режима: у аукционных ставок заполнен ExpiresAt,
// у раундовых заявок — RoundNumber.
type FreeAgencyBid struct {
	ID          int        `json:"id" db:"id"`
	LeagueID    int        `json:"league_id" db:"league_id"`
	PlayerID    int        `json:"player_id" db:"player_id"`
	TeamID      int        `json:"team_id" db:"team_id"`
	Amount      int64      `json:"amount" db:"amount"`
	RoundNumber *int       `json:"round_number,omitempty" db:"round_number"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	Status      BidStatus  `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}
