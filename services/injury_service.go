package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/jonboulle/clockwork"
)

var injurySeverities = map[string]bool{
	"questionable": true,
	"doubtful":     true,
	"out":          true,
	"ir":           true,
}

type CreateInjuryInput struct {
	PlayerID      int    `json:"player_id"`
	Severity      string `json:"severity"`
	DurationWeeks int    `json:"duration_weeks"`
}

type InjuryService interface {
	Create(ctx context.Context, leagueID int, input CreateInjuryInput) (*models.Injury, error)
	Resolve(ctx context.Context, injuryID int) (*models.Injury, error)
	ListByLeague(ctx context.Context, leagueID int, status *models.InjuryStatus) ([]*models.Injury, error)
}

type injuryService struct {
	db         *sql.DB
	leagueRepo repositories.LeagueRepository
	playerRepo repositories.PlayerRepository
	injuryRepo repositories.InjuryRepository
	clock      clockwork.Clock
	sink       events.Sink
}

func NewInjuryService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	playerRepo repositories.PlayerRepository,
	injuryRepo repositories.InjuryRepository,
	clock clockwork.Clock,
	sink events.Sink,
) InjuryService {
	return &injuryService{
		db:         db,
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		injuryRepo: injuryRepo,
		clock:      clock,
		sink:       sink,
	}
}

// Create регистрирует травму; статус игрока отражает её тяжесть, пока травма
// активна.
func (s *injuryService) Create(ctx context.Context, leagueID int, input CreateInjuryInput) (*models.Injury, error) {
	if !injurySeverities[input.Severity] {
		return nil, fmt.Errorf("%w: unknown injury severity %q", ErrValidationFailed, input.Severity)
	}
	if input.DurationWeeks < 1 {
		return nil, fmt.Errorf("%w: duration_weeks must be at least 1", ErrValidationFailed)
	}
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}

	var injury *models.Injury
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, input.PlayerID)
		if err != nil {
			return mapRepoError(err)
		}
		if player.LeagueID != leagueID {
			return fmt.Errorf("%w: player %d does not belong to league %d", ErrValidationFailed, input.PlayerID, leagueID)
		}

		injury = &models.Injury{
			LeagueID:      leagueID,
			PlayerID:      input.PlayerID,
			Severity:      input.Severity,
			DurationWeeks: input.DurationWeeks,
			Status:        models.InjuryStatusActive,
		}
		if err := s.injuryRepo.Create(ctx, tx, injury); err != nil {
			return err
		}
		return s.playerRepo.UpdateInjuryStatus(ctx, tx, input.PlayerID, input.Severity)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.InjuryCreated,
		LeagueID:   leagueID,
		EntityType: "injury",
		EntityID:   injury.ID,
		Details:    map[string]any{"player_id": injury.PlayerID, "severity": injury.Severity},
		OccurredAt: s.clock.Now(),
	})
	return injury, nil
}

// Resolve закрывает травму и возвращает игрока в строй.
func (s *injuryService) Resolve(ctx context.Context, injuryID int) (*models.Injury, error) {
	injury, err := s.injuryRepo.GetByID(ctx, injuryID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if injury.Status == models.InjuryStatusResolved {
		return nil, fmt.Errorf("%w: injury %d is already resolved", ErrPreconditionFailed, injuryID)
	}

	now := s.clock.Now()
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.injuryRepo.Resolve(ctx, tx, injuryID, now); err != nil {
			return err
		}
		return s.playerRepo.UpdateInjuryStatus(ctx, tx, injury.PlayerID, "healthy")
	})
	if err != nil {
		return nil, err
	}
	injury.Status = models.InjuryStatusResolved
	injury.ResolvedAt = &now

	s.sink.Publish(events.Event{
		Type:       events.InjuryResolved,
		LeagueID:   injury.LeagueID,
		EntityType: "injury",
		EntityID:   injury.ID,
		Details:    map[string]any{"player_id": injury.PlayerID},
		OccurredAt: now,
	})
	return injury, nil
}

func (s *injuryService) ListByLeague(ctx context.Context, leagueID int, status *models.InjuryStatus) ([]*models.Injury, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.injuryRepo.ListByLeague(ctx, leagueID, status)
}
