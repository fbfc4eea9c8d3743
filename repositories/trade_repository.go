package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrTradeNotFound = errors.New("trade not found")

type TradeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, trade *models.Trade) error
	GetByID(ctx context.Context, id int) (*models.Trade, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Trade, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Trade, error)
	ListItems(ctx context.Context, exec SQLExecutor, tradeID int) ([]models.TradeItem, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TradeStatus) error
}

type postgresTradeRepository struct {
	db *sql.DB
}

func NewPostgresTradeRepository(db *sql.DB) TradeRepository {
	return &postgresTradeRepository{db: db}
}

func (r *postgresTradeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tradeColumns = `id, league_id, from_team_id, to_team_id, created_by, status, created_at, updated_at`

// Create сохраняет трейд вместе с позициями одним вызовом; позиции без
// трейда не существуют.
func (r *postgresTradeRepository) Create(ctx context.Context, exec SQLExecutor, trade *models.Trade) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO trades (league_id, from_team_id, to_team_id, created_by, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		trade.LeagueID, trade.FromTeamID, trade.ToTeamID, trade.CreatedBy, trade.Status,
	).Scan(&trade.ID, &trade.CreatedAt, &trade.UpdatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO trade_items (trade_id, kind, player_id, pick_id, cash_amount, from_team_id, to_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	for i := range trade.Items {
		item := &trade.Items[i]
		item.TradeID = trade.ID
		if err := executor.QueryRowContext(ctx, itemQuery,
			item.TradeID,
			item.Kind,
			item.PlayerID,
			item.PickID,
			item.CashAmount,
			item.FromTeamID,
			item.ToTeamID,
		).Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresTradeRepository) scanTrade(row interface{ Scan(...interface{}) error }) (*models.Trade, error) {
	trade := &models.Trade{}
	err := row.Scan(
		&trade.ID,
		&trade.LeagueID,
		&trade.FromTeamID,
		&trade.ToTeamID,
		&trade.CreatedBy,
		&trade.Status,
		&trade.CreatedAt,
		&trade.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return trade, nil
}

func (r *postgresTradeRepository) GetByID(ctx context.Context, id int) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`
	trade, err := r.scanTrade(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.ListItems(ctx, nil, trade.ID)
	if err != nil {
		return nil, err
	}
	trade.Items = items
	return trade, nil
}

func (r *postgresTradeRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Trade, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1 FOR UPDATE`
	trade, err := r.scanTrade(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.ListItems(ctx, exec, trade.ID)
	if err != nil {
		return nil, err
	}
	trade.Items = items
	return trade, nil
}

func (r *postgresTradeRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE league_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trades := make([]*models.Trade, 0)
	for rows.Next() {
		trade, scanErr := r.scanTrade(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, trade := range trades {
		items, itemsErr := r.ListItems(ctx, nil, trade.ID)
		if itemsErr != nil {
			return nil, itemsErr
		}
		trade.Items = items
	}
	return trades, nil
}

func (r *postgresTradeRepository) ListItems(ctx context.Context, exec SQLExecutor, tradeID int) ([]models.TradeItem, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, trade_id, kind, player_id, pick_id, cash_amount, from_team_id, to_team_id
		FROM trade_items WHERE trade_id = $1 ORDER BY id`
	rows, err := executor.QueryContext(ctx, query, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.TradeItem, 0)
	for rows.Next() {
		var item models.TradeItem
		if scanErr := rows.Scan(
			&item.ID,
			&item.TradeID,
			&item.Kind,
			&item.PlayerID,
			&item.PickID,
			&item.CashAmount,
			&item.FromTeamID,
			&item.ToTeamID,
		); scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresTradeRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TradeStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE trades SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTradeNotFound)
}
