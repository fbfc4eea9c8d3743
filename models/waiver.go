package models

import "time"

type WaiverStatus string

const (
	WaiverStatusOpen    WaiverStatus = "open"
	WaiverStatusClaimed WaiverStatus = "claimed"
)

// Waiver — отчисленный игрок, временно открытый для заявок других команд,
// прежде чем стать свободным агентом.
type Waiver struct {
	ID         int          `json:"id" db:"id"`
	LeagueID   int          `json:"league_id" db:"league_id"`
	PlayerID   int          `json:"player_id" db:"player_id"`
	FromTeamID *int         `json:"from_team_id,omitempty" db:"from_team_id"`
	Status     WaiverStatus `json:"status" db:"status"`
	ClaimedBy  *int         `json:"claimed_by,omitempty" db:"claimed_by"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	ClaimedAt  *time.Time   `json:"claimed_at,omitempty" db:"claimed_at"`
}
