package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrLeagueNameConflict = errors.New("league name already exists")
	ErrConferenceNotFound = errors.New("conference not found")
	ErrDivisionNotFound   = errors.New("division not found")
)

type LeagueRepository interface {
	Create(ctx context.Context, exec SQLExecutor, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
	Update(ctx context.Context, league *models.League) error
	Delete(ctx context.Context, id int) error

	CreateConference(ctx context.Context, exec SQLExecutor, conference *models.Conference) error
	CreateDivision(ctx context.Context, exec SQLExecutor, division *models.Division) error
	ListConferences(ctx context.Context, leagueID int) ([]*models.Conference, error)
	ListDivisions(ctx context.Context, conferenceID int) ([]*models.Division, error)
	GetDivisionByID(ctx context.Context, id int) (*models.Division, error)
	RenameConference(ctx context.Context, id int, name string) error
	RenameDivision(ctx context.Context, id int, name string) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const leagueColumns = `id, name, conference_count, divisions_per_conference, teams_per_division,
	salary_cap, roster_size_limit, free_agency_mode, allow_cap_growth,
	allow_playoff_expansion, enable_realignment, created_at, updated_at`

func (r *postgresLeagueRepository) Create(ctx context.Context, exec SQLExecutor, league *models.League) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO leagues
			(name, conference_count, divisions_per_conference, teams_per_division,
			 salary_cap, roster_size_limit, free_agency_mode, allow_cap_growth,
			 allow_playoff_expansion, enable_realignment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		league.Name,
		league.ConferenceCount,
		league.DivisionsPerConference,
		league.TeamsPerDivision,
		league.SalaryCap,
		league.RosterSizeLimit,
		league.FreeAgencyMode,
		league.AllowCapGrowth,
		league.AllowPlayoffExpansion,
		league.EnableRealignment,
	).Scan(&league.ID, &league.CreatedAt, &league.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrLeagueNameConflict
	}
	return err
}

func (r *postgresLeagueRepository) scanLeague(row interface{ Scan(...interface{}) error }) (*models.League, error) {
	league := &models.League{}
	err := row.Scan(
		&league.ID,
		&league.Name,
		&league.ConferenceCount,
		&league.DivisionsPerConference,
		&league.TeamsPerDivision,
		&league.SalaryCap,
		&league.RosterSizeLimit,
		&league.FreeAgencyMode,
		&league.AllowCapGrowth,
		&league.AllowPlayoffExpansion,
		&league.EnableRealignment,
		&league.CreatedAt,
		&league.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return league, nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1`
	return r.scanLeague(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresLeagueRepository) List(ctx context.Context) ([]*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		league, scanErr := r.scanLeague(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

func (r *postgresLeagueRepository) Update(ctx context.Context, league *models.League) error {
	query := `
		UPDATE leagues
		SET name = $1, salary_cap = $2, roster_size_limit = $3, free_agency_mode = $4,
			allow_cap_growth = $5, allow_playoff_expansion = $6, enable_realignment = $7,
			updated_at = NOW()
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		league.Name,
		league.SalaryCap,
		league.RosterSizeLimit,
		league.FreeAgencyMode,
		league.AllowCapGrowth,
		league.AllowPlayoffExpansion,
		league.EnableRealignment,
		league.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

// Delete удаляет лигу; конференции, дивизионы, команды, игроки и контракты
// уходят каскадом (ON DELETE CASCADE в схеме).
func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) CreateConference(ctx context.Context, exec SQLExecutor, conference *models.Conference) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO conferences (league_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		conference.LeagueID, conference.Name, conference.Order,
	).Scan(&conference.ID)
}

func (r *postgresLeagueRepository) CreateDivision(ctx context.Context, exec SQLExecutor, division *models.Division) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO divisions (conference_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		division.ConferenceID, division.Name, division.Order,
	).Scan(&division.ID)
}

func (r *postgresLeagueRepository) ListConferences(ctx context.Context, leagueID int) ([]*models.Conference, error) {
	query := `SELECT id, league_id, name, sort_order FROM conferences WHERE league_id = $1 ORDER BY sort_order`
	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := make([]*models.Conference, 0)
	for rows.Next() {
		conf := &models.Conference{}
		if scanErr := rows.Scan(&conf.ID, &conf.LeagueID, &conf.Name, &conf.Order); scanErr != nil {
			return nil, scanErr
		}
		conferences = append(conferences, conf)
	}
	return conferences, rows.Err()
}

func (r *postgresLeagueRepository) ListDivisions(ctx context.Context, conferenceID int) ([]*models.Division, error) {
	query := `SELECT id, conference_id, name, sort_order FROM divisions WHERE conference_id = $1 ORDER BY sort_order`
	rows, err := r.db.QueryContext(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	divisions := make([]*models.Division, 0)
	for rows.Next() {
		div := &models.Division{}
		if scanErr := rows.Scan(&div.ID, &div.ConferenceID, &div.Name, &div.Order); scanErr != nil {
			return nil, scanErr
		}
		divisions = append(divisions, div)
	}
	return divisions, rows.Err()
}

func (r *postgresLeagueRepository) GetDivisionByID(ctx context.Context, id int) (*models.Division, error) {
	query := `SELECT id, conference_id, name, sort_order FROM divisions WHERE id = $1`
	div := &models.Division{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&div.ID, &div.ConferenceID, &div.Name, &div.Order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, err
	}
	return div, nil
}

func (r *postgresLeagueRepository) RenameConference(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE conferences SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrConferenceNotFound)
}

func (r *postgresLeagueRepository) RenameDivision(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE divisions SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}
