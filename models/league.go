package models

import "time"

// FreeAgencyMode выбирается при создании лиги и не меняется для открытых торгов.
type FreeAgencyMode string

const (
	FreeAgencyAuction FreeAgencyMode = "auction"
	FreeAgencyRounds  FreeAgencyMode = "rounds"
)

// League — корневой агрегат. Конференции, дивизионы, команды, игроки и
// контракты удаляются каскадно вместе с лигой.
type League struct {
	ID                     int            `json:"id" db:"id"`
	Name                   string         `json:"name" db:"name"`
	ConferenceCount        int            `json:"conference_count" db:"conference_count"`
	DivisionsPerConference int            `json:"divisions_per_conference" db:"divisions_per_conference"`
	TeamsPerDivision       int            `json:"teams_per_division" db:"teams_per_division"`
	SalaryCap              int64          `json:"salary_cap" db:"salary_cap"`
	RosterSizeLimit        int            `json:"roster_size_limit" db:"roster_size_limit"`
	FreeAgencyMode         FreeAgencyMode `json:"free_agency_mode" db:"free_agency_mode"`
	AllowCapGrowth         bool           `json:"allow_cap_growth" db:"allow_cap_growth"`
	AllowPlayoffExpansion  bool           `json:"allow_playoff_expansion" db:"allow_playoff_expansion"`
	EnableRealignment      bool           `json:"enable_realignment" db:"enable_realignment"`
	CreatedAt              time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at" db:"updated_at"`

	// Опциональная вложенная структура (не мапится напрямую)
	Conferences []Conference `json:"conferences,omitempty" db:"-"`
}

// MaxTeams возвращает вместимость лиги по её структуре.
func (l League) MaxTeams() int {
	return l.ConferenceCount * l.DivisionsPerConference * l.TeamsPerDivision
}

type Conference struct {
	ID       int    `json:"id" db:"id"`
	LeagueID int    `json:"league_id" db:"league_id"`
	Name     string `json:"name" db:"name"`
	Order    int    `json:"order" db:"sort_order"`

	Divisions []Division `json:"divisions,omitempty" db:"-"`
}

type Division struct {
	ID           int    `json:"id" db:"id"`
	ConferenceID int    `json:"conference_id" db:"conference_id"`
	Name         string `json:"name" db:"name"`
	Order        int    `json:"order" db:"sort_order"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}
