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

type CreateTeamInput struct {
	DivisionID      int                   `json:"division_id"`
	OwnerID         *int                  `json:"owner_id"`
	City            string                `json:"city"`
	Nickname        string                `json:"nickname"`
	Abbreviation    string                `json:"abbreviation"`
	PrimaryColor    string                `json:"primary_color"`
	SecondaryColor  string                `json:"secondary_color"`
	StadiumName     string                `json:"stadium_name"`
	StadiumCapacity int                   `json:"stadium_capacity"`
	StadiumTurf     models.StadiumTurf    `json:"stadium_turf"`
	StadiumWeather  models.StadiumWeather `json:"stadium_weather"`
	CashBalance     int64                 `json:"cash_balance"`
}

type TeamService interface {
	Create(ctx context.Context, leagueID int, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error)
	Delete(ctx context.Context, leagueID, teamID int) error
}

type teamService struct {
	db         *sql.DB
	leagueRepo repositories.LeagueRepository
	teamRepo   repositories.TeamRepository
	gameRepo   repositories.GameRepository
	sink       events.Sink
}

func NewTeamService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	gameRepo repositories.GameRepository,
	sink events.Sink,
) TeamService {
	return &teamService{
		db:         db,
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		gameRepo:   gameRepo,
		sink:       sink,
	}
}

func validTurf(t models.StadiumTurf) bool {
	return t == models.TurfGrass || t == models.TurfArtificial || t == models.TurfHybrid
}

func validWeather(w models.StadiumWeather) bool {
	switch w {
	case models.WeatherTemperate, models.WeatherCold, models.WeatherDome, models.WeatherExtreme:
		return true
	}
	return false
}

func (s *teamService) Create(ctx context.Context, leagueID int, input CreateTeamInput) (*models.Team, error) {
	switch {
	case input.City == "" || input.Nickname == "":
		return nil, fmt.Errorf("%w: city and nickname are required", ErrValidationFailed)
	case len(input.Abbreviation) < 2 || len(input.Abbreviation) > 4:
		return nil, fmt.Errorf("%w: abbreviation must be 2-4 characters", ErrValidationFailed)
	case input.StadiumCapacity <= 0:
		return nil, fmt.Errorf("%w: stadium_capacity must be positive", ErrValidationFailed)
	case !validTurf(input.StadiumTurf):
		return nil, fmt.Errorf("%w: invalid stadium_turf", ErrValidationFailed)
	case !validWeather(input.StadiumWeather):
		return nil, fmt.Errorf("%w: invalid stadium_weather", ErrValidationFailed)
	}

	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	division, err := s.leagueRepo.GetDivisionByID(ctx, input.DivisionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	conferences, err := s.leagueRepo.ListConferences(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	var conferenceID int
	for _, c := range conferences {
		if c.ID == division.ConferenceID {
			conferenceID = c.ID
			break
		}
	}
	if conferenceID == 0 {
		return nil, fmt.Errorf("%w: division %d does not belong to league %d", ErrValidationFailed, input.DivisionID, leagueID)
	}

	// Лига не принимает команд сверх своей структурной вместимости.
	count, err := s.teamRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if count >= league.MaxTeams() {
		return nil, fmt.Errorf("%w: league already has the maximum of %d teams", ErrPreconditionFailed, league.MaxTeams())
	}

	divisionTeams, err := s.teamRepo.ListByDivision(ctx, input.DivisionID)
	if err != nil {
		return nil, err
	}
	if len(divisionTeams) >= league.TeamsPerDivision {
		return nil, fmt.Errorf("%w: division %d already has %d teams", ErrPreconditionFailed, input.DivisionID, league.TeamsPerDivision)
	}

	team := &models.Team{
		LeagueID:        leagueID,
		ConferenceID:    conferenceID,
		DivisionID:      input.DivisionID,
		OwnerID:         input.OwnerID,
		City:            input.City,
		Nickname:        input.Nickname,
		Abbreviation:    input.Abbreviation,
		PrimaryColor:    input.PrimaryColor,
		SecondaryColor:  input.SecondaryColor,
		StadiumName:     input.StadiumName,
		StadiumCapacity: input.StadiumCapacity,
		StadiumTurf:     input.StadiumTurf,
		StadiumWeather:  input.StadiumWeather,
		CashBalance:     input.CashBalance,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if err == repositories.ErrTeamAbbreviationConflict {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return nil, mapRepoError(err)
	}

	s.sink.Publish(events.Event{
		Type:       events.TeamCreated,
		LeagueID:   leagueID,
		EntityType: "team",
		EntityID:   team.ID,
		Details:    map[string]any{"abbreviation": team.Abbreviation},
		OccurredAt: time.Now(),
	})
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return team, nil
}

func (s *teamService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.teamRepo.ListByLeague(ctx, leagueID)
}

// Delete удаляет команду вместе с её запланированными играми; игроки уходят в
// свободные агенты каскадом схемы (team_id → NULL, контракты каскадом).
func (s *teamService) Delete(ctx context.Context, leagueID, teamID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return mapRepoError(err)
	}
	if team.LeagueID != leagueID {
		return fmt.Errorf("%w: team %d does not belong to league %d", ErrNotFound, teamID, leagueID)
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.gameRepo.DeleteByTeam(ctx, tx, leagueID, teamID); err != nil {
			return err
		}
		return s.teamRepo.Delete(ctx, tx, teamID)
	})
	if err != nil {
		return mapRepoError(err)
	}

	s.sink.Publish(events.Event{
		Type:       events.TeamDeleted,
		LeagueID:   leagueID,
		EntityType: "team",
		EntityID:   teamID,
		OccurredAt: time.Now(),
	})
	return nil
}
