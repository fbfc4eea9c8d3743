package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type GameService interface {
	Complete(ctx context.Context, gameID, homeScore, awayScore int) (*models.Game, error)
	Reopen(ctx context.Context, gameID int) (*models.Game, error)
	Move(ctx context.Context, gameID, weekID int) (*models.Game, error)
	GetByID(ctx context.Context, gameID int) (*models.Game, error)
}

type gameService struct {
	db          *sql.DB
	gameRepo    repositories.GameRepository
	seasonRepo  repositories.SeasonRepository
	playoffRepo repositories.PlayoffRepository
	sink        events.Sink
}

func NewGameService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	seasonRepo repositories.SeasonRepository,
	playoffRepo repositories.PlayoffRepository,
	sink events.Sink,
) GameService {
	return &gameService{
		db:          db,
		gameRepo:    gameRepo,
		seasonRepo:  seasonRepo,
		playoffRepo: playoffRepo,
		sink:        sink,
	}
}

func (s *gameService) leagueOfWeek(ctx context.Context, weekID int) (int, error) {
	week, err := s.seasonRepo.GetWeekByID(ctx, weekID)
	if err != nil {
		return 0, mapRepoError(err)
	}
	season, err := s.seasonRepo.GetByID(ctx, week.SeasonID)
	if err != nil {
		return 0, mapRepoError(err)
	}
	return season.LeagueID, nil
}

// Complete фиксирует итог игры. Завершённая игра неизменяема; равный счёт —
// ничья, победитель не назначается. Если игра привязана к матчу плей-офф,
// матч сетки помечается завершённым в той же транзакции.
func (s *gameService) Complete(ctx context.Context, gameID, homeScore, awayScore int) (*models.Game, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, fmt.Errorf("%w: scores must be non-negative", ErrValidationFailed)
	}

	var game *models.Game
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, tx, gameID)
		if err != nil {
			return mapRepoError(err)
		}
		if game.Status == models.GameStatusCompleted {
			return fmt.Errorf("%w: game %d is already completed", ErrPreconditionFailed, gameID)
		}

		game.HomeScore = &homeScore
		game.AwayScore = &awayScore
		game.Status = models.GameStatusCompleted
		switch {
		case homeScore > awayScore:
			game.WinnerID = &game.HomeTeamID
			game.LoserID = &game.AwayTeamID
		case awayScore > homeScore:
			game.WinnerID = &game.AwayTeamID
			game.LoserID = &game.HomeTeamID
		}

		if err := s.gameRepo.CompleteGame(ctx, tx, game); err != nil {
			return err
		}
		return s.playoffRepo.CompleteBracketMatchByGame(ctx, tx, gameID)
	})
	if err != nil {
		return nil, err
	}

	leagueID, err := s.leagueOfWeek(ctx, game.WeekID)
	if err == nil {
		s.sink.Publish(events.Event{
			Type:       events.GameCompleted,
			LeagueID:   leagueID,
			EntityType: "game",
			EntityID:   game.ID,
			Details:    map[string]any{"home_score": homeScore, "away_score": awayScore},
			OccurredAt: time.Now(),
		})
	}
	return game, nil
}

// Reopen возвращает завершённую игру в расписание: счёт и исход сбрасываются,
// связанный матч плей-офф снова ожидает результата. Единственный путь
// переигровки — в частности для игры плей-офф, завершённой вничью, где без
// победителя раунд не продвинуть.
func (s *gameService) Reopen(ctx context.Context, gameID int) (*models.Game, error) {
	var game *models.Game
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, tx, gameID)
		if err != nil {
			return mapRepoError(err)
		}
		if game.Status != models.GameStatusCompleted {
			return fmt.Errorf("%w: game %d is not completed, nothing to reopen", ErrPreconditionFailed, gameID)
		}

		if err := s.gameRepo.ReopenGame(ctx, tx, gameID); err != nil {
			return err
		}
		game.HomeScore = nil
		game.AwayScore = nil
		game.WinnerID = nil
		game.LoserID = nil
		game.Status = models.GameStatusScheduled
		return s.playoffRepo.ReopenBracketMatchByGame(ctx, tx, gameID)
	})
	if err != nil {
		return nil, err
	}

	leagueID, err := s.leagueOfWeek(ctx, game.WeekID)
	if err == nil {
		s.sink.Publish(events.Event{
			Type:       events.GameReopened,
			LeagueID:   leagueID,
			EntityType: "game",
			EntityID:   game.ID,
			OccurredAt: time.Now(),
		})
	}
	return game, nil
}

// Move переносит запланированную игру в другую неделю того же сезона.
func (s *gameService) Move(ctx context.Context, gameID, weekID int) (*models.Game, error) {
	var game *models.Game
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, tx, gameID)
		if err != nil {
			return mapRepoError(err)
		}
		if game.Status != models.GameStatusScheduled {
			return fmt.Errorf("%w: only scheduled games can be moved", ErrPreconditionFailed)
		}

		current, err := s.seasonRepo.GetWeekByID(ctx, game.WeekID)
		if err != nil {
			return mapRepoError(err)
		}
		target, err := s.seasonRepo.GetWeekByID(ctx, weekID)
		if err != nil {
			return mapRepoError(err)
		}
		if current.SeasonID != target.SeasonID {
			return fmt.Errorf("%w: target week belongs to a different season", ErrValidationFailed)
		}

		if err := s.gameRepo.UpdateWeek(ctx, tx, gameID, weekID); err != nil {
			return err
		}
		game.WeekID = weekID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (s *gameService) GetByID(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return game, nil
}
