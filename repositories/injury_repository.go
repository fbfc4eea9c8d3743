package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
)

var ErrInjuryNotFound = errors.New("injury not found")

type InjuryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, injury *models.Injury) error
	GetByID(ctx context.Context, id int) (*models.Injury, error)
	ListByLeague(ctx context.Context, leagueID int, status *models.InjuryStatus) ([]*models.Injury, error)
	Resolve(ctx context.Context, exec SQLExecutor, id int, resolvedAt time.Time) error
}

type postgresInjuryRepository struct {
	db *sql.DB
}

func NewPostgresInjuryRepository(db *sql.DB) InjuryRepository {
	return &postgresInjuryRepository{db: db}
}

func (r *postgresInjuryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const injuryColumns = `id, league_id, player_id, severity, duration_weeks, status, created_at, resolved_at`

func (r *postgresInjuryRepository) Create(ctx context.Context, exec SQLExecutor, injury *models.Injury) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO injuries (league_id, player_id, severity, duration_weeks, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		injury.LeagueID, injury.PlayerID, injury.Severity, injury.DurationWeeks, injury.Status,
	).Scan(&injury.ID, &injury.CreatedAt)
}

func (r *postgresInjuryRepository) scanInjury(row interface{ Scan(...interface{}) error }) (*models.Injury, error) {
	injury := &models.Injury{}
	err := row.Scan(
		&injury.ID,
		&injury.LeagueID,
		&injury.PlayerID,
		&injury.Severity,
		&injury.DurationWeeks,
		&injury.Status,
		&injury.CreatedAt,
		&injury.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInjuryNotFound
		}
		return nil, err
	}
	return injury, nil
}

func (r *postgresInjuryRepository) GetByID(ctx context.Context, id int) (*models.Injury, error) {
	query := `SELECT ` + injuryColumns + ` FROM injuries WHERE id = $1`
	return r.scanInjury(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresInjuryRepository) ListByLeague(ctx context.Context, leagueID int, status *models.InjuryStatus) ([]*models.Injury, error) {
	query := `SELECT ` + injuryColumns + ` FROM injuries WHERE league_id = $1`
	args := []interface{}{leagueID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	injuries := make([]*models.Injury, 0)
	for rows.Next() {
		injury, scanErr := r.scanInjury(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		injuries = append(injuries, injury)
	}
	return injuries, rows.Err()
}

func (r *postgresInjuryRepository) Resolve(ctx context.Context, exec SQLExecutor, id int, resolvedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE injuries SET status = $1, resolved_at = $2 WHERE id = $3`,
		models.InjuryStatusResolved, resolvedAt, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInjuryNotFound)
}
