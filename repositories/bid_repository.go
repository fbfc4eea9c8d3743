package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrBidNotFound = errors.New("free agency bid not found")
	ErrBidConflict = errors.New("team already has a claim for this player in this round")
)

type BidRepository interface {
	Create(ctx context.Context, bid *models.FreeAgencyBid) error
	GetByID(ctx context.Context, id int) (*models.FreeAgencyBid, error)
	ListByLeague(ctx context.Context, leagueID int, status *models.BidStatus) ([]*models.FreeAgencyBid, error)
	ListOpenExpired(ctx context.Context, exec SQLExecutor, leagueID int, now time.Time) ([]*models.FreeAgencyBid, error)
	ListOpenRounds(ctx context.Context, exec SQLExecutor, leagueID int) ([]*models.FreeAgencyBid, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BidStatus, resolvedAt time.Time) error
}

type postgresBidRepository struct {
	db *sql.DB
}

func NewPostgresBidRepository(db *sql.DB) BidRepository {
	return &postgresBidRepository{db: db}
}

func (r *postgresBidRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bidColumns = `id, league_id, player_id, team_id, amount, round_number, expires_at, status, created_at, resolved_at`

func (r *postgresBidRepository) Create(ctx context.Context, bid *models.FreeAgencyBid) error {
	query := `
		INSERT INTO free_agency_bids
			(league_id, player_id, team_id, amount, round_number, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		bid.LeagueID,
		bid.PlayerID,
		bid.TeamID,
		bid.Amount,
		bid.RoundNumber,
		bid.ExpiresAt,
		bid.Status,
	).Scan(&bid.ID, &bid.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrBidConflict
	}
	return err
}

func (r *postgresBidRepository) scanBid(row interface{ Scan(...interface{}) error }) (*models.FreeAgencyBid, error) {
	bid := &models.FreeAgencyBid{}
	err := row.Scan(
		&bid.ID,
		&bid.LeagueID,
		&bid.PlayerID,
		&bid.TeamID,
		&bid.Amount,
		&bid.RoundNumber,
		&bid.ExpiresAt,
		&bid.Status,
		&bid.CreatedAt,
		&bid.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return bid, nil
}

func (r *postgresBidRepository) GetByID(ctx context.Context, id int) (*models.FreeAgencyBid, error) {
	query := `SELECT ` + bidColumns + ` FROM free_agency_bids WHERE id = $1`
	return r.scanBid(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresBidRepository) ListByLeague(ctx context.Context, leagueID int, status *models.BidStatus) ([]*models.FreeAgencyBid, error) {
	query := `SELECT ` + bidColumns + ` FROM free_agency_bids WHERE league_id = $1`
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
	return r.collectBids(rows)
}

// ListOpenExpired выбирает просроченные открытые аукционные ставки лиги с
// блокировкой строк: конкурентные резолюции не обработают одну ставку дважды.
func (r *postgresBidRepository) ListOpenExpired(ctx context.Context, exec SQLExecutor, leagueID int, now time.Time) ([]*models.FreeAgencyBid, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + bidColumns + ` FROM free_agency_bids
		WHERE league_id = $1 AND status = $2 AND expires_at IS NOT NULL AND expires_at <= $3
		ORDER BY player_id, amount DESC, created_at
		FOR UPDATE`
	rows, err := executor.QueryContext(ctx, query, leagueID, models.BidStatusOpen, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectBids(rows)
}

func (r *postgresBidRepository) ListOpenRounds(ctx context.Context, exec SQLExecutor, leagueID int) ([]*models.FreeAgencyBid, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + bidColumns + ` FROM free_agency_bids
		WHERE league_id = $1 AND status = $2 AND round_number IS NOT NULL
		ORDER BY round_number, player_id, created_at
		FOR UPDATE`
	rows, err := executor.QueryContext(ctx, query, leagueID, models.BidStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectBids(rows)
}

func (r *postgresBidRepository) collectBids(rows *sql.Rows) ([]*models.FreeAgencyBid, error) {
	bids := make([]*models.FreeAgencyBid, 0)
	for rows.Next() {
		bid, scanErr := r.scanBid(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func (r *postgresBidRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BidStatus, resolvedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE free_agency_bids SET status = $1, resolved_at = $2 WHERE id = $3`,
		status, resolvedAt, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBidNotFound)
}
