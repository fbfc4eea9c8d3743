package models

import "time"

type DraftType string

const (
	DraftTypeRookie DraftType = "rookie"
)

type DraftOrderPolicy string

const (
	DraftOrderStraight DraftOrderPolicy = "straight"
	DraftOrderSnake    DraftOrderPolicy = "snake"
)

type Draft struct {
	ID          int              `json:"id" db:"id"`
	LeagueID    int              `json:"league_id" db:"league_id"`
	SeasonID    *int             `json:"season_id,omitempty" db:"season_id"`
	DraftType   DraftType        `json:"draft_type" db:"draft_type"`
	OrderPolicy DraftOrderPolicy `json:"order_policy" db:"order_policy"`
	Rounds      int              `json:"rounds" db:"rounds"`
	IsComplete  bool             `json:"is_complete" db:"is_complete"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	Picks []DraftPick `json:"picks,omitempty" db:"-"`
}

type DraftPick struct {
	ID             int        `json:"id" db:"id"`
	DraftID        int        `json:"draft_id" db:"draft_id"`
	RoundNumber    int        `json:"round_number" db:"round_number"`
	OverallNumber  int        `json:"overall_number" db:"overall_number"`
	TeamID         int        `json:"team_id" db:"team_id"`
	OriginalTeamID int        `json:"original_team_id" db:"original_team_id"`
	PlayerID       *int       `json:"player_id,omitempty" db:"player_id"`
	IsSelected     bool       `json:"is_selected" db:"is_selected"`
	SelectedAt     *time.Time `json:"selected_at,omitempty" db:"selected_at"`
}
