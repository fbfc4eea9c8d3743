package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/schedule"
)

type ScheduleService interface {
	Generate(ctx context.Context, leagueID, year int, force bool) (*models.Season, error)
	GetSeason(ctx context.Context, leagueID, year int) (*models.Season, error)
}

type scheduleService struct {
	db                 *sql.DB
	leagueRepo         repositories.LeagueRepository
	teamRepo           repositories.TeamRepository
	seasonRepo         repositories.SeasonRepository
	gameRepo           repositories.GameRepository
	playoffRepo        repositories.PlayoffRepository
	crossDivisionGames int
	sink               events.Sink
}

func NewScheduleService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	gameRepo repositories.GameRepository,
	playoffRepo repositories.PlayoffRepository,
	crossDivisionGames int,
	sink events.Sink,
) ScheduleService {
	return &scheduleService{
		db:                 db,
		leagueRepo:         leagueRepo,
		teamRepo:           teamRepo,
		seasonRepo:         seasonRepo,
		gameRepo:           gameRepo,
		playoffRepo:        playoffRepo,
		crossDivisionGames: crossDivisionGames,
		sink:               sink,
	}
}

// divisionsByID собирает команды лиги в группы по дивизионам, отсортированные
// по id дивизиона и id команды. Порядок фиксирован, поэтому генерация
// детерминирована: повторный вызов на том же составе даёт то же расписание.
func (s *scheduleService) divisionsByID(ctx context.Context, leagueID int) ([][]int, error) {
	conferences, err := s.leagueRepo.ListConferences(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	divisions := make([][]int, 0)
	for _, conference := range conferences {
		divs, err := s.leagueRepo.ListDivisions(ctx, conference.ID)
		if err != nil {
			return nil, err
		}
		for _, div := range divs {
			teams, err := s.teamRepo.ListByDivision(ctx, div.ID)
			if err != nil {
				return nil, err
			}
			ids := make([]int, 0, len(teams))
			for _, t := range teams {
				ids = append(ids, t.ID)
			}
			if len(ids) > 0 {
				divisions = append(divisions, ids)
			}
		}
	}
	return divisions, nil
}

// Generate строит регулярный сезон заново. Существующее расписание с
// завершёнными играми перегенерируется только с force; вместе с неделями
// сбрасываются сетка и состояние плей-офф сезона, иначе они держали бы
// ссылки на удалённые игры.
func (s *scheduleService) Generate(ctx context.Context, leagueID, year int, force bool) (*models.Season, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be positive", ErrValidationFailed)
	}
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}

	divisions, err := s.divisionsByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	plan, err := schedule.Generate(schedule.Params{
		Divisions:          divisions,
		CrossDivisionGames: s.crossDivisionGames,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}
	if err := schedule.Validate(plan); err != nil {
		return nil, err
	}

	var season *models.Season
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		season, err = s.seasonRepo.GetOrCreate(ctx, tx, leagueID, year)
		if err != nil {
			return err
		}

		completed, err := s.gameRepo.CountCompletedBySeason(ctx, season.ID)
		if err != nil {
			return err
		}
		if completed > 0 && !force {
			return fmt.Errorf("%w: season %d already has %d completed games; pass force to regenerate", ErrConflict, year, completed)
		}

		if err := s.playoffRepo.DeleteBracketMatchesBySeason(ctx, tx, season.ID); err != nil {
			return err
		}
		if err := s.playoffRepo.DeleteStateBySeason(ctx, tx, season.ID); err != nil {
			return err
		}
		if err := s.seasonRepo.DeleteWeeks(ctx, tx, season.ID, false); err != nil {
			return err
		}

		for _, weekPlan := range plan {
			week := &models.Week{SeasonID: season.ID, Number: weekPlan.Number}
			if err := s.seasonRepo.CreateWeek(ctx, tx, week); err != nil {
				return err
			}
			for _, pairing := range weekPlan.Pairings {
				game := &models.Game{
					WeekID:     week.ID,
					HomeTeamID: pairing.HomeTeamID,
					AwayTeamID: pairing.AwayTeamID,
					Status:     models.GameStatusScheduled,
				}
				if err := s.gameRepo.Create(ctx, tx, game); err != nil {
					return err
				}
				week.Games = append(week.Games, *game)
			}
			for _, teamID := range weekPlan.ByeTeamIDs {
				bye := &models.Bye{WeekID: week.ID, TeamID: teamID}
				if err := s.seasonRepo.CreateBye(ctx, tx, bye); err != nil {
					return err
				}
				week.Byes = append(week.Byes, *bye)
			}
			season.Weeks = append(season.Weeks, *week)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.ScheduleGenerated,
		LeagueID:   leagueID,
		EntityType: "season",
		EntityID:   season.ID,
		Details:    map[string]any{"year": year, "weeks": len(season.Weeks)},
		OccurredAt: time.Now(),
	})
	return season, nil
}

func (s *scheduleService) GetSeason(ctx context.Context, leagueID, year int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return nil, mapRepoError(err)
	}
	weeks, err := s.seasonRepo.ListWeeks(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	for _, week := range weeks {
		games, err := s.gameRepo.ListByWeek(ctx, week.ID)
		if err != nil {
			return nil, err
		}
		for _, game := range games {
			week.Games = append(week.Games, *game)
		}
		byes, err := s.seasonRepo.ListByesByWeek(ctx, week.ID)
		if err != nil {
			return nil, err
		}
		for _, bye := range byes {
			week.Byes = append(week.Byes, *bye)
		}
		season.Weeks = append(season.Weeks, *week)
	}
	return season, nil
}
