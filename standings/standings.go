// Package standings выводит турнирную таблицу сезона как чистую функцию от
// завершённых игр. Таблица нигде не хранится как источник истины и не
// правится руками.
package standings

import (
	"sort"

	"github.com/Dosada05/league-system/models"
)

// Compute собирает таблицу по всем командам лиги. Учитываются только
// завершённые игры; равный счёт считается ничьёй и не даёт ни победы, ни
// поражения. Результат отсортирован порядком Less.
func Compute(teams []models.Team, games []models.Game) []models.Standing {
	byTeam := make(map[int]*models.Standing, len(teams))
	rows := make([]models.Standing, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, models.Standing{
			TeamID:       t.ID,
			Abbreviation: t.Abbreviation,
			ConferenceID: t.ConferenceID,
			DivisionID:   t.DivisionID,
		})
	}
	for i := range rows {
		byTeam[rows[i].TeamID] = &rows[i]
	}

	for _, g := range games {
		if g.Status != models.GameStatusCompleted || g.HomeScore == nil || g.AwayScore == nil {
			continue
		}
		home, okHome := byTeam[g.HomeTeamID]
		away, okAway := byTeam[g.AwayTeamID]
		if !okHome || !okAway {
			continue
		}

		home.PointsFor += *g.HomeScore
		home.PointsAgainst += *g.AwayScore
		away.PointsFor += *g.AwayScore
		away.PointsAgainst += *g.HomeScore

		switch {
		case *g.HomeScore > *g.AwayScore:
			home.Wins++
			away.Losses++
		case *g.AwayScore > *g.HomeScore:
			away.Wins++
			home.Losses++
		default:
			home.Ties++
			away.Ties++
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return Less(rows[i], rows[j])
	})
	return rows
}

// Less задаёт порядок таблицы: победы по убыванию, поражения по возрастанию,
// разница очков по убыванию, набранные очки по убыванию, затем id команды —
// стабильный тай-брейк без недетерминизма.
func Less(a, b models.Standing) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.Losses != b.Losses {
		return a.Losses < b.Losses
	}
	if a.PointDifferential() != b.PointDifferential() {
		return a.PointDifferential() > b.PointDifferential()
	}
	if a.PointsFor != b.PointsFor {
		return a.PointsFor > b.PointsFor
	}
	return a.TeamID < b.TeamID
}
