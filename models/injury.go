package models

import "time"

type InjuryStatus string

const (
	InjuryStatusActive   InjuryStatus = "active"
	InjuryStatusResolved InjuryStatus = "resolved"
)

type Injury struct {
	ID            int          `json:"id" db:"id"`
	LeagueID      int          `json:"league_id" db:"league_id"`
	PlayerID      int          `json:"player_id" db:"player_id"`
	Severity      string       `json:"severity" db:"severity"`
	DurationWeeks int          `json:"duration_weeks" db:"duration_weeks"`
	Status        InjuryStatus `json:"status" db:"status"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty" db:"resolved_at"`
}
