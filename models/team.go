package models

import "time"

type StadiumTurf string

const (
	TurfGrass      StadiumTurf = "grass"
	TurfArtificial StadiumTurf = "turf"
	TurfHybrid     StadiumTurf = "hybrid"
)

type StadiumWeather string

const (
	WeatherTemperate StadiumWeather = "temperate"
	WeatherCold      StadiumWeather = "cold"
	WeatherDome      StadiumWeather = "dome"
	WeatherExtreme   StadiumWeather = "extreme"
)

type Team struct {
	ID              int            `json:"id" db:"id"`
	LeagueID        int            `json:"league_id" db:"league_id"`
	ConferenceID    int            `json:"conference_id" db:"conference_id"`
	DivisionID      int            `json:"division_id" db:"division_id"`
	OwnerID         *int           `json:"owner_id,omitempty" db:"owner_id"`
	City            string         `json:"city" db:"city"`
	Nickname        string         `json:"nickname" db:"nickname"`
	Abbreviation    string         `json:"abbreviation" db:"abbreviation"`
	PrimaryColor    string         `json:"primary_color" db:"primary_color"`
	SecondaryColor  string         `json:"secondary_color" db:"secondary_color"`
	StadiumName     string         `json:"stadium_name" db:"stadium_name"`
	StadiumCapacity int            `json:"stadium_capacity" db:"stadium_capacity"`
	StadiumTurf     StadiumTurf    `json:"stadium_turf" db:"stadium_turf"`
	StadiumWeather  StadiumWeather `json:"stadium_weather" db:"stadium_weather"`
	CashBalance     int64          `json:"cash_balance" db:"cash_balance"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`

	Players []Player `json:"players,omitempty" db:"-"`
}
