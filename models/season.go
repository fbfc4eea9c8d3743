package models

import "time"

type Season struct {
	ID        int       `json:"id" db:"id"`
	LeagueID  int       `json:"league_id" db:"league_id"`
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Weeks []Week `json:"weeks,omitempty" db:"-"`
}

type Week struct {
	ID         int  `json:"id" db:"id"`
	SeasonID   int  `json:"season_id" db:"season_id"`
	Number     int  `json:"number" db:"number"`
	IsPlayoffs bool `json:"is_playoffs" db:"is_playoffs"`

	Games []Game `json:"games,omitempty" db:"-"`
	Byes  []Bye  `json:"byes,omitempty" db:"-"`
}

type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusCompleted GameStatus = "completed"
)

// Game. Счёт и победитель заполняются только при завершении; завершённая игра
// неизменяема вне явной операции переоткрытия.
type Game struct {
	ID         int        `json:"id" db:"id"`
	WeekID     int        `json:"week_id" db:"week_id"`
	HomeTeamID int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int        `json:"away_team_id" db:"away_team_id"`
	HomeScore  *int       `json:"home_score,omitempty" db:"home_score"`
	AwayScore  *int       `json:"away_score,omitempty" db:"away_score"`
	Status     GameStatus `json:"status" db:"status"`
	WinnerID   *int       `json:"winner_id,omitempty" db:"winner_id"`
	LoserID    *int       `json:"loser_id,omitempty" db:"loser_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Bye — явная запись о команде, не играющей в данную неделю.
type Bye struct {
	ID     int `json:"id" db:"id"`
	WeekID int `json:"week_id" db:"week_id"`
	TeamID int `json:"team_id" db:"team_id"`
}
