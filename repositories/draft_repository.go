package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrDraftPickNotFound = errors.New("draft pick not found")
)

type DraftRepository interface {
	Create(ctx context.Context, exec SQLExecutor, draft *models.Draft) error
	GetByID(ctx context.Context, id int) (*models.Draft, error)
	MarkComplete(ctx context.Context, exec SQLExecutor, draftID int) error

	CreatePicks(ctx context.Context, exec SQLExecutor, picks []*models.DraftPick) error
	GetPickByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.DraftPick, error)
	ListPicksByDraft(ctx context.Context, draftID int) ([]models.DraftPick, error)
	CountUnselected(ctx context.Context, exec SQLExecutor, draftID int) (int, error)
	SelectPick(ctx context.Context, exec SQLExecutor, pickID, playerID int, selectedAt time.Time) error
	UpdatePickTeam(ctx context.Context, exec SQLExecutor, pickID, teamID int) error
}

type postgresDraftRepository struct {
	db *sql.DB
}

func NewPostgresDraftRepository(db *sql.DB) DraftRepository {
	return &postgresDraftRepository{db: db}
}

func (r *postgresDraftRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDraftRepository) Create(ctx context.Context, exec SQLExecutor, draft *models.Draft) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO drafts (league_id, season_id, draft_type, order_policy, rounds)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		draft.LeagueID, draft.SeasonID, draft.DraftType, draft.OrderPolicy, draft.Rounds,
	).Scan(&draft.ID, &draft.CreatedAt)
}

func (r *postgresDraftRepository) GetByID(ctx context.Context, id int) (*models.Draft, error) {
	draft := &models.Draft{}
	query := `SELECT id, league_id, season_id, draft_type, order_policy, rounds, is_complete, created_at
		FROM drafts WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&draft.ID,
		&draft.LeagueID,
		&draft.SeasonID,
		&draft.DraftType,
		&draft.OrderPolicy,
		&draft.Rounds,
		&draft.IsComplete,
		&draft.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	picks, err := r.ListPicksByDraft(ctx, draft.ID)
	if err != nil {
		return nil, err
	}
	draft.Picks = picks
	return draft, nil
}

func (r *postgresDraftRepository) MarkComplete(ctx context.Context, exec SQLExecutor, draftID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE drafts SET is_complete = TRUE WHERE id = $1`, draftID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDraftNotFound)
}

func (r *postgresDraftRepository) CreatePicks(ctx context.Context, exec SQLExecutor, picks []*models.DraftPick) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO draft_picks (draft_id, round_number, overall_number, team_id, original_team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	for _, pick := range picks {
		if err := executor.QueryRowContext(ctx, query,
			pick.DraftID, pick.RoundNumber, pick.OverallNumber, pick.TeamID, pick.OriginalTeamID,
		).Scan(&pick.ID); err != nil {
			return err
		}
	}
	return nil
}

const pickColumns = `id, draft_id, round_number, overall_number, team_id, original_team_id, player_id, is_selected, selected_at`

func (r *postgresDraftRepository) scanPick(row interface{ Scan(...interface{}) error }) (*models.DraftPick, error) {
	pick := &models.DraftPick{}
	err := row.Scan(
		&pick.ID,
		&pick.DraftID,
		&pick.RoundNumber,
		&pick.OverallNumber,
		&pick.TeamID,
		&pick.OriginalTeamID,
		&pick.PlayerID,
		&pick.IsSelected,
		&pick.SelectedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftPickNotFound
		}
		return nil, err
	}
	return pick, nil
}

func (r *postgresDraftRepository) GetPickByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.DraftPick, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + pickColumns + ` FROM draft_picks WHERE id = $1 FOR UPDATE`
	return r.scanPick(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresDraftRepository) ListPicksByDraft(ctx context.Context, draftID int) ([]models.DraftPick, error) {
	query := `SELECT ` + pickColumns + ` FROM draft_picks WHERE draft_id = $1 ORDER BY overall_number`
	rows, err := r.db.QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	picks := make([]models.DraftPick, 0)
	for rows.Next() {
		pick, scanErr := r.scanPick(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		picks = append(picks, *pick)
	}
	return picks, rows.Err()
}

func (r *postgresDraftRepository) CountUnselected(ctx context.Context, exec SQLExecutor, draftID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM draft_picks WHERE draft_id = $1 AND NOT is_selected`, draftID,
	).Scan(&count)
	return count, err
}

func (r *postgresDraftRepository) SelectPick(ctx context.Context, exec SQLExecutor, pickID, playerID int, selectedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE draft_picks SET player_id = $1, is_selected = TRUE, selected_at = $2 WHERE id = $3`,
		playerID, selectedAt, pickID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDraftPickNotFound)
}

func (r *postgresDraftRepository) UpdatePickTeam(ctx context.Context, exec SQLExecutor, pickID, teamID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE draft_picks SET team_id = $1 WHERE id = $2`, teamID, pickID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDraftPickNotFound)
}
