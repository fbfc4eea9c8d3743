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

type WaiverService interface {
	Release(ctx context.Context, leagueID, playerID, teamID int) (*models.Waiver, error)
	Claim(ctx context.Context, waiverID, teamID int) (*models.Waiver, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Waiver, error)
}

type waiverService struct {
	db           *sql.DB
	leagueRepo   repositories.LeagueRepository
	teamRepo     repositories.TeamRepository
	playerRepo   repositories.PlayerRepository
	contractRepo repositories.ContractRepository
	waiverRepo   repositories.WaiverRepository
	clock        clockwork.Clock
	sink         events.Sink
}

func NewWaiverService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	contractRepo repositories.ContractRepository,
	waiverRepo repositories.WaiverRepository,
	clock clockwork.Clock,
	sink events.Sink,
) WaiverService {
	return &waiverService{
		db:           db,
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		contractRepo: contractRepo,
		waiverRepo:   waiverRepo,
		clock:        clock,
		sink:         sink,
	}
}

// Release выставляет игрока на драфт отказов: контракт расторгается, игрок
// покидает состав, но до заявки или закрытия остаётся на отказах, а не среди
// свободных агентов.
func (s *waiverService) Release(ctx context.Context, leagueID, playerID, teamID int) (*models.Waiver, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if team.LeagueID != leagueID {
		return nil, fmt.Errorf("%w: team %d does not belong to league %d", ErrValidationFailed, teamID, leagueID)
	}

	var waiver *models.Waiver
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, playerID)
		if err != nil {
			return mapRepoError(err)
		}
		if player.TeamID == nil || *player.TeamID != teamID {
			return fmt.Errorf("%w: player %d is not on team %d", ErrPreconditionFailed, playerID, teamID)
		}
		if err := s.contractRepo.DeleteByPlayerID(ctx, tx, playerID); err != nil {
			return err
		}
		if err := s.playerRepo.UpdateTeam(ctx, tx, playerID, nil); err != nil {
			return err
		}
		waiver = &models.Waiver{
			LeagueID:   leagueID,
			PlayerID:   playerID,
			FromTeamID: &teamID,
			Status:     models.WaiverStatusOpen,
		}
		return s.waiverRepo.Create(ctx, tx, waiver)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.WaiverReleased,
		LeagueID:   leagueID,
		EntityType: "waiver",
		EntityID:   waiver.ID,
		Details:    map[string]any{"player_id": playerID, "from_team_id": teamID},
		OccurredAt: s.clock.Now(),
	})
	return waiver, nil
}

// Claim отдаёт игрока с отказов заявившей команде. Команда, отчислившая
// игрока, вернуть его этим путём не может.
func (s *waiverService) Claim(ctx context.Context, waiverID, teamID int) (*models.Waiver, error) {
	var waiver *models.Waiver
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		waiver, err = s.waiverRepo.GetByIDForUpdate(ctx, tx, waiverID)
		if err != nil {
			return mapRepoError(err)
		}
		if waiver.Status != models.WaiverStatusOpen {
			return fmt.Errorf("%w: waiver %d is already claimed", ErrPreconditionFailed, waiverID)
		}
		if waiver.FromTeamID != nil && *waiver.FromTeamID == teamID {
			return fmt.Errorf("%w: releasing team cannot claim its own waiver", ErrValidationFailed)
		}

		league, err := s.leagueRepo.GetByID(ctx, waiver.LeagueID)
		if err != nil {
			return mapRepoError(err)
		}
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return mapRepoError(err)
		}
		if team.LeagueID != waiver.LeagueID {
			return fmt.Errorf("%w: team %d does not belong to league %d", ErrValidationFailed, teamID, waiver.LeagueID)
		}
		if err := checkRosterRoom(ctx, s.playerRepo, tx, league, teamID, 1); err != nil {
			return err
		}

		if err := s.playerRepo.UpdateTeam(ctx, tx, waiver.PlayerID, &teamID); err != nil {
			return err
		}
		now := s.clock.Now()
		if err := s.waiverRepo.Claim(ctx, tx, waiverID, teamID, now); err != nil {
			return err
		}
		waiver.Status = models.WaiverStatusClaimed
		waiver.ClaimedBy = &teamID
		waiver.ClaimedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.WaiverClaimed,
		LeagueID:   waiver.LeagueID,
		EntityType: "waiver",
		EntityID:   waiver.ID,
		Details:    map[string]any{"player_id": waiver.PlayerID, "team_id": teamID},
		OccurredAt: s.clock.Now(),
	})
	return waiver, nil
}

func (s *waiverService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Waiver, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.waiverRepo.ListByLeague(ctx, leagueID)
}
