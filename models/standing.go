package models

// Standing — производная сущность: всегда пересчитывается из завершённых игр
// сезона и никогда не хранится как источник истины.
type Standing struct {
	TeamID        int    `json:"team_id"`
	Abbreviation  string `json:"abbreviation"`
	ConferenceID  int    `json:"conference_id"`
	DivisionID    int    `json:"division_id"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}

func (s Standing) PointDifferential() int {
	return s.PointsFor - s.PointsAgainst
}
