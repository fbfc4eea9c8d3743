package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type ContractTerms struct {
	Salary    int64 `json:"salary"`
	Bonus     int64 `json:"bonus"`
	Years     int   `json:"years"`
	StartYear int   `json:"start_year"`
}

type AddPlayerInput struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Position        models.Position `json:"position"`
	Age             int             `json:"age"`
	HeightInches    int             `json:"height_inches"`
	WeightLbs       int             `json:"weight_lbs"`
	OverallRating   int             `json:"overall_rating"`
	PotentialRating int             `json:"potential_rating"`
	Contract        *ContractTerms  `json:"contract"`
}

type RosterService interface {
	AddPlayer(ctx context.Context, leagueID, teamID int, input AddPlayerInput) (*models.Player, error)
	GetRoster(ctx context.Context, leagueID, teamID int) ([]*models.Player, error)
	Release(ctx context.Context, leagueID, teamID, playerID int) error
	UpdateContract(ctx context.Context, leagueID, playerID int, terms ContractTerms) (*models.Contract, error)
}

type rosterService struct {
	db           *sql.DB
	leagueRepo   repositories.LeagueRepository
	teamRepo     repositories.TeamRepository
	playerRepo   repositories.PlayerRepository
	contractRepo repositories.ContractRepository
	sink         events.Sink
}

func NewRosterService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	contractRepo repositories.ContractRepository,
	sink events.Sink,
) RosterService {
	return &rosterService{
		db:           db,
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		contractRepo: contractRepo,
		sink:         sink,
	}
}

func validateContractTerms(terms ContractTerms) error {
	switch {
	case terms.Salary < 0 || terms.Bonus < 0:
		return fmt.Errorf("%w: salary and bonus must be non-negative", ErrValidationFailed)
	case terms.Years < 1:
		return fmt.Errorf("%w: contract years must be at least 1", ErrValidationFailed)
	}
	return nil
}

func validatePlayerInput(input AddPlayerInput) error {
	switch {
	case input.FirstName == "" || input.LastName == "":
		return fmt.Errorf("%w: player first and last name are required", ErrValidationFailed)
	case !models.ValidPosition(input.Position):
		return fmt.Errorf("%w: unknown position %q", ErrValidationFailed, input.Position)
	case input.OverallRating < models.RatingMin || input.OverallRating > models.RatingMax:
		return fmt.Errorf("%w: overall_rating must be in [%d, %d]", ErrValidationFailed, models.RatingMin, models.RatingMax)
	case input.PotentialRating < models.RatingMin || input.PotentialRating > models.RatingMax:
		return fmt.Errorf("%w: potential_rating must be in [%d, %d]", ErrValidationFailed, models.RatingMin, models.RatingMax)
	case input.Age <= 0:
		return fmt.Errorf("%w: age must be positive", ErrValidationFailed)
	}
	if input.Contract != nil {
		return validateContractTerms(*input.Contract)
	}
	return nil
}

func (s *rosterService) getLeagueTeam(ctx context.Context, leagueID, teamID int) (*models.League, *models.Team, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, mapRepoError(err)
	}
	if team.LeagueID != leagueID {
		return nil, nil, fmt.Errorf("%w: team %d does not belong to league %d", ErrNotFound, teamID, leagueID)
	}
	return league, team, nil
}

// AddPlayer создаёт игрока в составе команды, с контрактом или без. Лимит
// состава и потолок проверяются в одной транзакции с записью.
func (s *rosterService) AddPlayer(ctx context.Context, leagueID, teamID int, input AddPlayerInput) (*models.Player, error) {
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}
	league, team, err := s.getLeagueTeam(ctx, leagueID, teamID)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		LeagueID:        leagueID,
		TeamID:          &team.ID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Position:        input.Position,
		Age:             input.Age,
		HeightInches:    input.HeightInches,
		WeightLbs:       input.WeightLbs,
		OverallRating:   input.OverallRating,
		PotentialRating: input.PotentialRating,
		InjuryStatus:    "healthy",
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := checkRosterRoom(ctx, s.playerRepo, tx, league, teamID, 1); err != nil {
			return err
		}
		if input.Contract != nil {
			projected := models.Contract{
				Salary: input.Contract.Salary,
				Bonus:  input.Contract.Bonus,
				Years:  input.Contract.Years,
			}
			if err := checkCapRoom(ctx, s.contractRepo, tx, league, teamID, projected.CapHit()); err != nil {
				return err
			}
		}
		if err := s.playerRepo.Create(ctx, tx, player); err != nil {
			return err
		}
		if input.Contract != nil {
			contract := &models.Contract{
				PlayerID:  player.ID,
				TeamID:    teamID,
				Salary:    input.Contract.Salary,
				Bonus:     input.Contract.Bonus,
				Years:     input.Contract.Years,
				StartYear: input.Contract.StartYear,
			}
			if err := s.contractRepo.Create(ctx, tx, contract); err != nil {
				return err
			}
			player.Contract = contract
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.RosterAdded,
		LeagueID:   leagueID,
		EntityType: "player",
		EntityID:   player.ID,
		Details:    map[string]any{"team_id": teamID},
		OccurredAt: time.Now(),
	})
	return player, nil
}

func (s *rosterService) GetRoster(ctx context.Context, leagueID, teamID int) ([]*models.Player, error) {
	_, _, err := s.getLeagueTeam(ctx, leagueID, teamID)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, player := range players {
		contract, err := s.contractRepo.GetByPlayerID(ctx, nil, player.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrContractNotFound) {
				continue
			}
			return nil, err
		}
		player.Contract = contract
	}
	return players, nil
}

// Release отчисляет игрока: контракт удаляется, игрок становится свободным
// агентом. Для выставления на драфт отказов используется WaiverService.
func (s *rosterService) Release(ctx context.Context, leagueID, teamID, playerID int) error {
	_, _, err := s.getLeagueTeam(ctx, leagueID, teamID)
	if err != nil {
		return err
	}

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
		return s.playerRepo.UpdateTeam(ctx, tx, playerID, nil)
	})
	if err != nil {
		return err
	}

	s.sink.Publish(events.Event{
		Type:       events.RosterReleased,
		LeagueID:   leagueID,
		EntityType: "player",
		EntityID:   playerID,
		Details:    map[string]any{"team_id": teamID},
		OccurredAt: time.Now(),
	})
	return nil
}

// UpdateContract меняет условия действующего контракта с повторной проверкой
// потолка (старый cap hit вычитается, новый прибавляется).
func (s *rosterService) UpdateContract(ctx context.Context, leagueID, playerID int, terms ContractTerms) (*models.Contract, error) {
	if err := validateContractTerms(terms); err != nil {
		return nil, err
	}
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	var updated *models.Contract
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, playerID)
		if err != nil {
			return mapRepoError(err)
		}
		if player.LeagueID != leagueID {
			return fmt.Errorf("%w: player %d does not belong to league %d", ErrNotFound, playerID, leagueID)
		}
		if player.TeamID == nil {
			return fmt.Errorf("%w: free agents have no contract to update", ErrPreconditionFailed)
		}

		contract, err := s.contractRepo.GetByPlayerID(ctx, tx, playerID)
		if err != nil {
			return mapRepoError(err)
		}

		next := *contract
		next.Salary = terms.Salary
		next.Bonus = terms.Bonus
		next.Years = terms.Years
		next.StartYear = terms.StartYear

		delta := next.CapHit() - contract.CapHit()
		if delta > 0 {
			if err := checkCapRoom(ctx, s.contractRepo, tx, league, contract.TeamID, delta); err != nil {
				return err
			}
		}
		if err := s.contractRepo.Update(ctx, tx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.ContractUpdated,
		LeagueID:   leagueID,
		EntityType: "contract",
		EntityID:   updated.ID,
		Details:    map[string]any{"player_id": playerID},
		OccurredAt: time.Now(),
	})
	return updated, nil
}
