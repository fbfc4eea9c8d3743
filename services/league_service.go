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

type CreateLeagueInput struct {
	Name                   string                `json:"name"`
	ConferenceCount        int                   `json:"conference_count"`
	DivisionsPerConference int                   `json:"divisions_per_conference"`
	TeamsPerDivision       int                   `json:"teams_per_division"`
	SalaryCap              int64                 `json:"salary_cap"`
	RosterSizeLimit        int                   `json:"roster_size_limit"`
	FreeAgencyMode         models.FreeAgencyMode `json:"free_agency_mode"`
	AllowCapGrowth         bool                  `json:"allow_cap_growth"`
	AllowPlayoffExpansion  bool                  `json:"allow_playoff_expansion"`
	EnableRealignment      bool                  `json:"enable_realignment"`
}

type UpdateLeagueInput struct {
	Name                  *string                `json:"name"`
	SalaryCap             *int64                 `json:"salary_cap"`
	RosterSizeLimit       *int                   `json:"roster_size_limit"`
	FreeAgencyMode        *models.FreeAgencyMode `json:"free_agency_mode"`
	AllowCapGrowth        *bool                  `json:"allow_cap_growth"`
	AllowPlayoffExpansion *bool                  `json:"allow_playoff_expansion"`
	EnableRealignment     *bool                  `json:"enable_realignment"`
}

type LeagueService interface {
	Create(ctx context.Context, input CreateLeagueInput) (*models.League, error)
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
	GetStructure(ctx context.Context, id int) (*models.League, error)
	Update(ctx context.Context, id int, input UpdateLeagueInput) (*models.League, error)
	Delete(ctx context.Context, id int) error
	RenameConference(ctx context.Context, leagueID, conferenceID int, name string) error
	RenameDivision(ctx context.Context, leagueID, divisionID int, name string) error
}

type leagueService struct {
	db         *sql.DB
	leagueRepo repositories.LeagueRepository
	teamRepo   repositories.TeamRepository
	bidRepo    repositories.BidRepository
	sink       events.Sink
}

func NewLeagueService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	bidRepo repositories.BidRepository,
	sink events.Sink,
) LeagueService {
	return &leagueService{
		db:         db,
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		bidRepo:    bidRepo,
		sink:       sink,
	}
}

func validateLeagueInput(input CreateLeagueInput) error {
	switch {
	case input.Name == "":
		return fmt.Errorf("%w: league name is required", ErrValidationFailed)
	case input.ConferenceCount < 1:
		return fmt.Errorf("%w: conference_count must be at least 1", ErrValidationFailed)
	case input.DivisionsPerConference < 1:
		return fmt.Errorf("%w: divisions_per_conference must be at least 1", ErrValidationFailed)
	case input.TeamsPerDivision < 1:
		return fmt.Errorf("%w: teams_per_division must be at least 1", ErrValidationFailed)
	case input.SalaryCap <= 0:
		return fmt.Errorf("%w: salary_cap must be positive", ErrValidationFailed)
	case input.RosterSizeLimit < 1:
		return fmt.Errorf("%w: roster_size_limit must be at least 1", ErrValidationFailed)
	case input.FreeAgencyMode != models.FreeAgencyAuction && input.FreeAgencyMode != models.FreeAgencyRounds:
		return fmt.Errorf("%w: free_agency_mode must be auction or rounds", ErrValidationFailed)
	}
	return nil
}

// Create создаёт лигу и сразу разворачивает её структуру: conference_count
// конференций «Conference N», в каждой divisions_per_conference дивизионов
// «Division N». Всё в одной транзакции — полупустых лиг не бывает.
func (s *leagueService) Create(ctx context.Context, input CreateLeagueInput) (*models.League, error) {
	if err := validateLeagueInput(input); err != nil {
		return nil, err
	}

	league := &models.League{
		Name:                   input.Name,
		ConferenceCount:        input.ConferenceCount,
		DivisionsPerConference: input.DivisionsPerConference,
		TeamsPerDivision:       input.TeamsPerDivision,
		SalaryCap:              input.SalaryCap,
		RosterSizeLimit:        input.RosterSizeLimit,
		FreeAgencyMode:         input.FreeAgencyMode,
		AllowCapGrowth:         input.AllowCapGrowth,
		AllowPlayoffExpansion:  input.AllowPlayoffExpansion,
		EnableRealignment:      input.EnableRealignment,
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.leagueRepo.Create(ctx, tx, league); err != nil {
			if err == repositories.ErrLeagueNameConflict {
				return fmt.Errorf("%w: %s", ErrConflict, err)
			}
			return err
		}
		for c := 1; c <= league.ConferenceCount; c++ {
			conference := &models.Conference{
				LeagueID: league.ID,
				Name:     fmt.Sprintf("Conference %d", c),
				Order:    c,
			}
			if err := s.leagueRepo.CreateConference(ctx, tx, conference); err != nil {
				return err
			}
			for d := 1; d <= league.DivisionsPerConference; d++ {
				division := &models.Division{
					ConferenceID: conference.ID,
					Name:         fmt.Sprintf("Division %d", d),
					Order:        d,
				}
				if err := s.leagueRepo.CreateDivision(ctx, tx, division); err != nil {
					return err
				}
				conference.Divisions = append(conference.Divisions, *division)
			}
			league.Conferences = append(league.Conferences, *conference)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.LeagueCreated,
		LeagueID:   league.ID,
		EntityType: "league",
		EntityID:   league.ID,
		Details:    map[string]any{"name": league.Name},
		OccurredAt: time.Now(),
	})
	return league, nil
}

func (s *leagueService) GetByID(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return league, nil
}

func (s *leagueService) List(ctx context.Context) ([]*models.League, error) {
	return s.leagueRepo.List(ctx)
}

// GetStructure возвращает лигу с вложенными конференциями, дивизионами и
// командами.
func (s *leagueService) GetStructure(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	conferences, err := s.leagueRepo.ListConferences(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, conference := range conferences {
		divisions, err := s.leagueRepo.ListDivisions(ctx, conference.ID)
		if err != nil {
			return nil, err
		}
		for _, division := range divisions {
			teams, err := s.teamRepo.ListByDivision(ctx, division.ID)
			if err != nil {
				return nil, err
			}
			for _, team := range teams {
				division.Teams = append(division.Teams, *team)
			}
			conference.Divisions = append(conference.Divisions, *division)
		}
		league.Conferences = append(league.Conferences, *conference)
	}
	return league, nil
}

func (s *leagueService) Update(ctx context.Context, id int, input UpdateLeagueInput) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if input.FreeAgencyMode != nil && *input.FreeAgencyMode != league.FreeAgencyMode {
		if *input.FreeAgencyMode != models.FreeAgencyAuction && *input.FreeAgencyMode != models.FreeAgencyRounds {
			return nil, fmt.Errorf("%w: free_agency_mode must be auction or rounds", ErrValidationFailed)
		}
		// Режим нельзя переключать под открытыми торгами.
		open := models.BidStatusOpen
		bids, err := s.bidRepo.ListByLeague(ctx, id, &open)
		if err != nil {
			return nil, err
		}
		if len(bids) > 0 {
			return nil, fmt.Errorf("%w: cannot change free agency mode while bids are open", ErrPreconditionFailed)
		}
		league.FreeAgencyMode = *input.FreeAgencyMode
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: league name is required", ErrValidationFailed)
		}
		league.Name = *input.Name
	}
	if input.SalaryCap != nil {
		if *input.SalaryCap <= 0 {
			return nil, fmt.Errorf("%w: salary_cap must be positive", ErrValidationFailed)
		}
		league.SalaryCap = *input.SalaryCap
	}
	if input.RosterSizeLimit != nil {
		if *input.RosterSizeLimit < 1 {
			return nil, fmt.Errorf("%w: roster_size_limit must be at least 1", ErrValidationFailed)
		}
		league.RosterSizeLimit = *input.RosterSizeLimit
	}
	if input.AllowCapGrowth != nil {
		league.AllowCapGrowth = *input.AllowCapGrowth
	}
	if input.AllowPlayoffExpansion != nil {
		league.AllowPlayoffExpansion = *input.AllowPlayoffExpansion
	}
	if input.EnableRealignment != nil {
		league.EnableRealignment = *input.EnableRealignment
	}

	if err := s.leagueRepo.Update(ctx, league); err != nil {
		if err == repositories.ErrLeagueNameConflict {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return nil, mapRepoError(err)
	}

	s.sink.Publish(events.Event{
		Type:       events.LeagueUpdated,
		LeagueID:   league.ID,
		EntityType: "league",
		EntityID:   league.ID,
		OccurredAt: time.Now(),
	})
	return league, nil
}

func (s *leagueService) Delete(ctx context.Context, id int) error {
	if err := s.leagueRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.sink.Publish(events.Event{
		Type:       events.LeagueDeleted,
		LeagueID:   id,
		EntityType: "league",
		EntityID:   id,
		OccurredAt: time.Now(),
	})
	return nil
}

func (s *leagueService) RenameConference(ctx context.Context, leagueID, conferenceID int, name string) error {
	if name == "" {
		return fmt.Errorf("%w: conference name is required", ErrValidationFailed)
	}
	conferences, err := s.leagueRepo.ListConferences(ctx, leagueID)
	if err != nil {
		return err
	}
	found := false
	for _, c := range conferences {
		if c.ID == conferenceID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: conference %d does not belong to league %d", ErrNotFound, conferenceID, leagueID)
	}
	return mapRepoError(s.leagueRepo.RenameConference(ctx, conferenceID, name))
}

func (s *leagueService) RenameDivision(ctx context.Context, leagueID, divisionID int, name string) error {
	if name == "" {
		return fmt.Errorf("%w: division name is required", ErrValidationFailed)
	}
	division, err := s.leagueRepo.GetDivisionByID(ctx, divisionID)
	if err != nil {
		return mapRepoError(err)
	}
	conferences, err := s.leagueRepo.ListConferences(ctx, leagueID)
	if err != nil {
		return err
	}
	found := false
	for _, c := range conferences {
		if c.ID == division.ConferenceID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: division %d does not belong to league %d", ErrNotFound, divisionID, leagueID)
	}
	return mapRepoError(s.leagueRepo.RenameDivision(ctx, divisionID, name))
}
