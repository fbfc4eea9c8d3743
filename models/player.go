package models

import "time"

type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
	PositionOL Position = "OL"
	PositionDL Position = "DL"
	PositionLB Position = "LB"
	PositionCB Position = "CB"
	PositionS  Position = "S"
	PositionK  Position = "K"
	PositionP  Position = "P"
)

// Positions перечисляет все допустимые позиции (для валидации входа).
var Positions = []Position{
	PositionQB, PositionRB, PositionWR, PositionTE, PositionOL, PositionDL,
	PositionLB, PositionCB, PositionS, PositionK, PositionP,
}

const (
	RatingMin = 35
	RatingMax = 99
)

// Player. TeamID == nil означает свободного агента (или пул новичков,
// если установлен IsRookiePool).
type Player struct {
	ID              int       `json:"id" db:"id"`
	LeagueID        int       `json:"league_id" db:"league_id"`
	TeamID          *int      `json:"team_id,omitempty" db:"team_id"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	Position        Position  `json:"position" db:"position"`
	Age             int       `json:"age" db:"age"`
	HeightInches    int       `json:"height_inches" db:"height_inches"`
	WeightLbs       int       `json:"weight_lbs" db:"weight_lbs"`
	OverallRating   int       `json:"overall_rating" db:"overall_rating"`
	PotentialRating int       `json:"potential_rating" db:"potential_rating"`
	InjuryStatus    string    `json:"injury_status" db:"injury_status"`
	IsRookiePool    bool      `json:"is_rookie_pool" db:"is_rookie_pool"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Contract *Contract `json:"contract,omitempty" db:"-"`
}

func (p Player) IsFreeAgent() bool {
	return p.TeamID == nil && !p.IsRookiePool
}

func ValidPosition(pos Position) bool {
	for _, p := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}
