package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound             = errors.New("team not found")
	ErrTeamAbbreviationConflict = errors.New("team abbreviation is already in use in this league")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error)
	ListByDivision(ctx context.Context, divisionID int) ([]*models.Team, error)
	CountByLeague(ctx context.Context, leagueID int) (int, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	AdjustCashBalance(ctx context.Context, exec SQLExecutor, teamID int, delta int64) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, league_id, conference_id, division_id, owner_id, city, nickname, abbreviation,
	primary_color, secondary_color, stadium_name, stadium_capacity, stadium_turf, stadium_weather,
	cash_balance, created_at, updated_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams
			(league_id, conference_id, division_id, owner_id, city, nickname, abbreviation,
			 primary_color, secondary_color, stadium_name, stadium_capacity, stadium_turf,
			 stadium_weather, cash_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		team.LeagueID,
		team.ConferenceID,
		team.DivisionID,
		team.OwnerID,
		team.City,
		team.Nickname,
		team.Abbreviation,
		team.PrimaryColor,
		team.SecondaryColor,
		team.StadiumName,
		team.StadiumCapacity,
		team.StadiumTurf,
		team.StadiumWeather,
		team.CashBalance,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return ErrTeamAbbreviationConflict
		case "foreign_key_violation":
			return ErrLeagueNotFound
		}
	}
	return err
}

func (r *postgresTeamRepository) scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.LeagueID,
		&team.ConferenceID,
		&team.DivisionID,
		&team.OwnerID,
		&team.City,
		&team.Nickname,
		&team.Abbreviation,
		&team.PrimaryColor,
		&team.SecondaryColor,
		&team.StadiumName,
		&team.StadiumCapacity,
		&team.StadiumTurf,
		&team.StadiumWeather,
		&team.CashBalance,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE league_id = $1 ORDER BY id`
	return r.queryTeams(ctx, query, leagueID)
}

func (r *postgresTeamRepository) ListByDivision(ctx context.Context, divisionID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE division_id = $1 ORDER BY id`
	return r.queryTeams(ctx, query, divisionID)
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) CountByLeague(ctx context.Context, leagueID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams WHERE league_id = $1`, leagueID).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AdjustCashBalance(ctx context.Context, exec SQLExecutor, teamID int, delta int64) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE teams SET cash_balance = cash_balance + $1, updated_at = NOW() WHERE id = $2`,
		delta, teamID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
