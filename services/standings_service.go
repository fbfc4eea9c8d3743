package services

import (
	"context"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
)

type StandingsService interface {
	GetByLeagueYear(ctx context.Context, leagueID, year int) ([]models.Standing, error)
}

type standingsService struct {
	teamRepo   repositories.TeamRepository
	seasonRepo repositories.SeasonRepository
	gameRepo   repositories.GameRepository
}

func NewStandingsService(
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	gameRepo repositories.GameRepository,
) StandingsService {
	return &standingsService{
		teamRepo:   teamRepo,
		seasonRepo: seasonRepo,
		gameRepo:   gameRepo,
	}
}

// GetByLeagueYear пересчитывает таблицу из завершённых игр регулярного
// сезона. Игры плей-офф в таблицу не входят.
func (s *standingsService) GetByLeagueYear(ctx context.Context, leagueID, year int) ([]models.Standing, error) {
	season, err := s.seasonRepo.GetByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return nil, mapRepoError(err)
	}
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	games, err := s.gameRepo.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	weeks, err := s.seasonRepo.ListWeeks(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	playoffWeeks := make(map[int]bool)
	for _, w := range weeks {
		if w.IsPlayoffs {
			playoffWeeks[w.ID] = true
		}
	}

	teamValues := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		teamValues = append(teamValues, *t)
	}
	gameValues := make([]models.Game, 0, len(games))
	for _, g := range games {
		if playoffWeeks[g.WeekID] {
			continue
		}
		gameValues = append(gameValues, *g)
	}
	return standings.Compute(teamValues, gameValues), nil
}
