package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrSeasonNotFound = errors.New("season not found")
	ErrWeekNotFound   = errors.New("week not found")
)

type SeasonRepository interface {
	GetOrCreate(ctx context.Context, exec SQLExecutor, leagueID, year int) (*models.Season, error)
	GetByLeagueYear(ctx context.Context, leagueID, year int) (*models.Season, error)
	GetLatestByLeague(ctx context.Context, leagueID int) (*models.Season, error)
	GetByID(ctx context.Context, id int) (*models.Season, error)
	DeleteWeeks(ctx context.Context, exec SQLExecutor, seasonID int, playoffsOnly bool) error
	CreateWeek(ctx context.Context, exec SQLExecutor, week *models.Week) error
	GetWeekByID(ctx context.Context, id int) (*models.Week, error)
	ListWeeks(ctx context.Context, seasonID int) ([]*models.Week, error)
	MaxWeekNumber(ctx context.Context, exec SQLExecutor, seasonID int) (int, error)
	CreateBye(ctx context.Context, exec SQLExecutor, bye *models.Bye) error
	ListByesByWeek(ctx context.Context, weekID int) ([]*models.Bye, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSeasonRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, leagueID, year int) (*models.Season, error) {
	executor := r.getExecutor(exec)
	season := &models.Season{LeagueID: leagueID, Year: year}
	query := `
		INSERT INTO seasons (league_id, year)
		VALUES ($1, $2)
		ON CONFLICT (league_id, year) DO UPDATE SET year = EXCLUDED.year
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query, leagueID, year).Scan(&season.ID, &season.CreatedAt)
	if err != nil {
		return nil, err
	}
	return season, nil
}

func (r *postgresSeasonRepository) GetByLeagueYear(ctx context.Context, leagueID, year int) (*models.Season, error) {
	season := &models.Season{}
	query := `SELECT id, league_id, year, created_at FROM seasons WHERE league_id = $1 AND year = $2`
	err := r.db.QueryRowContext(ctx, query, leagueID, year).Scan(
		&season.ID, &season.LeagueID, &season.Year, &season.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

func (r *postgresSeasonRepository) GetLatestByLeague(ctx context.Context, leagueID int) (*models.Season, error) {
	season := &models.Season{}
	query := `SELECT id, league_id, year, created_at FROM seasons WHERE league_id = $1 ORDER BY year DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, leagueID).Scan(
		&season.ID, &season.LeagueID, &season.Year, &season.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	season := &models.Season{}
	query := `SELECT id, league_id, year, created_at FROM seasons WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&season.ID, &season.LeagueID, &season.Year, &season.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

// DeleteWeeks очищает расписание сезона (игры и bye уходят каскадом).
// С playoffsOnly удаляются только недели плей-офф.
func (r *postgresSeasonRepository) DeleteWeeks(ctx context.Context, exec SQLExecutor, seasonID int, playoffsOnly bool) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM weeks WHERE season_id = $1`
	if playoffsOnly {
		query += ` AND is_playoffs`
	}
	_, err := executor.ExecContext(ctx, query, seasonID)
	return err
}

func (r *postgresSeasonRepository) CreateWeek(ctx context.Context, exec SQLExecutor, week *models.Week) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO weeks (season_id, number, is_playoffs)
		VALUES ($1, $2, $3)
		RETURNING id`
	return executor.QueryRowContext(ctx, query, week.SeasonID, week.Number, week.IsPlayoffs).Scan(&week.ID)
}

func (r *postgresSeasonRepository) GetWeekByID(ctx context.Context, id int) (*models.Week, error) {
	week := &models.Week{}
	query := `SELECT id, season_id, number, is_playoffs FROM weeks WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&week.ID, &week.SeasonID, &week.Number, &week.IsPlayoffs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}
	return week, nil
}

func (r *postgresSeasonRepository) ListWeeks(ctx context.Context, seasonID int) ([]*models.Week, error) {
	query := `SELECT id, season_id, number, is_playoffs FROM weeks WHERE season_id = $1 ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make([]*models.Week, 0)
	for rows.Next() {
		week := &models.Week{}
		if scanErr := rows.Scan(&week.ID, &week.SeasonID, &week.Number, &week.IsPlayoffs); scanErr != nil {
			return nil, scanErr
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

func (r *postgresSeasonRepository) MaxWeekNumber(ctx context.Context, exec SQLExecutor, seasonID int) (int, error) {
	executor := r.getExecutor(exec)
	var max int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM weeks WHERE season_id = $1`, seasonID,
	).Scan(&max)
	return max, err
}

func (r *postgresSeasonRepository) CreateBye(ctx context.Context, exec SQLExecutor, bye *models.Bye) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO byes (week_id, team_id) VALUES ($1, $2) RETURNING id`
	return executor.QueryRowContext(ctx, query, bye.WeekID, bye.TeamID).Scan(&bye.ID)
}

func (r *postgresSeasonRepository) ListByesByWeek(ctx context.Context, weekID int) ([]*models.Bye, error) {
	query := `SELECT id, week_id, team_id FROM byes WHERE week_id = $1 ORDER BY team_id`
	rows, err := r.db.QueryContext(ctx, query, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byes := make([]*models.Bye, 0)
	for rows.Next() {
		bye := &models.Bye{}
		if scanErr := rows.Scan(&bye.ID, &bye.WeekID, &bye.TeamID); scanErr != nil {
			return nil, scanErr
		}
		byes = append(byes, bye)
	}
	return byes, rows.Err()
}
