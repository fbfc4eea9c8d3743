package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
)

var ErrWaiverNotFound = errors.New("waiver not found")

type WaiverRepository interface {
	Create(ctx context.Context, exec SQLExecutor, waiver *models.Waiver) error
	GetByID(ctx context.Context, id int) (*models.Waiver, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Waiver, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Waiver, error)
	Claim(ctx context.Context, exec SQLExecutor, id, teamID int, claimedAt time.Time) error
}

type postgresWaiverRepository struct {
	db *sql.DB
}

func NewPostgresWaiverRepository(db *sql.DB) WaiverRepository {
	return &postgresWaiverRepository{db: db}
}

func (r *postgresWaiverRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const waiverColumns = `id, league_id, player_id, from_team_id, status, claimed_by, created_at, claimed_at`

func (r *postgresWaiverRepository) Create(ctx context.Context, exec SQLExecutor, waiver *models.Waiver) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO waivers (league_id, player_id, from_team_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		waiver.LeagueID, waiver.PlayerID, waiver.FromTeamID, waiver.Status,
	).Scan(&waiver.ID, &waiver.CreatedAt)
}

func (r *postgresWaiverRepository) scanWaiver(row interface{ Scan(...interface{}) error }) (*models.Waiver, error) {
	waiver := &models.Waiver{}
	err := row.Scan(
		&waiver.ID,
		&waiver.LeagueID,
		&waiver.PlayerID,
		&waiver.FromTeamID,
		&waiver.Status,
		&waiver.ClaimedBy,
		&waiver.CreatedAt,
		&waiver.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWaiverNotFound
		}
		return nil, err
	}
	return waiver, nil
}

func (r *postgresWaiverRepository) GetByID(ctx context.Context, id int) (*models.Waiver, error) {
	query := `SELECT ` + waiverColumns + ` FROM waivers WHERE id = $1`
	return r.scanWaiver(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresWaiverRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Waiver, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + waiverColumns + ` FROM waivers WHERE id = $1 FOR UPDATE`
	return r.scanWaiver(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresWaiverRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Waiver, error) {
	query := `SELECT ` + waiverColumns + ` FROM waivers WHERE league_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	waivers := make([]*models.Waiver, 0)
	for rows.Next() {
		waiver, scanErr := r.scanWaiver(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		waivers = append(waivers, waiver)
	}
	return waivers, rows.Err()
}

func (r *postgresWaiverRepository) Claim(ctx context.Context, exec SQLExecutor, id, teamID int, claimedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE waivers SET status = $1, claimed_by = $2, claimed_at = $3 WHERE id = $4`,
		models.WaiverStatusClaimed, teamID, claimedAt, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrWaiverNotFound)
}
