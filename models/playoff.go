package models

import "time"

// PlayoffRound — явный указатель раунда на сезон. Продвижение по раундам
// транзакционно, членство в раунде не выводится фильтрацией по меткам.
type PlayoffRound string

const (
	RoundWildcard     PlayoffRound = "wildcard"
	RoundDivisional   PlayoffRound = "divisional"
	RoundConference   PlayoffRound = "conference"
	RoundChampionship PlayoffRound = "championship"
	RoundComplete     PlayoffRound = "complete"
)

type PlayoffState struct {
	ID           int          `json:"id" db:"id"`
	SeasonID     int          `json:"season_id" db:"season_id"`
	CurrentRound PlayoffRound `json:"current_round" db:"current_round"`
	FieldSize    int          `json:"field_size" db:"field_size"`
	ChampionID   *int         `json:"champion_id,omitempty" db:"champion_id"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

type PlayoffSeed struct {
	Seed         int    `json:"seed"`
	TeamID       int    `json:"team_id"`
	Abbreviation string `json:"abbreviation"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	PointsFor    int    `json:"points_for"`
}

type BracketMatchStatus string

const (
	BracketMatchPending   BracketMatchStatus = "pending"
	BracketMatchCompleted BracketMatchStatus = "completed"
	BracketMatchBye       BracketMatchStatus = "bye"
)

// BracketMatch связывает пару посевов с игрой плей-офф недели; исход игры
// разрешает матч через обычный completeGame. LowerSeed == nil означает bye.
type BracketMatch struct {
	ID               int                `json:"id" db:"id"`
	SeasonID         int                `json:"season_id" db:"season_id"`
	Round            PlayoffRound       `json:"round" db:"round"`
	HigherSeed       int                `json:"higher_seed" db:"higher_seed"`
	HigherSeedTeamID int                `json:"higher_seed_team_id" db:"higher_seed_team_id"`
	LowerSeed        *int               `json:"lower_seed,omitempty" db:"lower_seed"`
	LowerSeedTeamID  *int               `json:"lower_seed_team_id,omitempty" db:"lower_seed_team_id"`
	GameID           *int               `json:"game_id,omitempty" db:"game_id"`
	Status           BracketMatchStatus `json:"status" db:"status"`
}
