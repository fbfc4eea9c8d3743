package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrPlayoffStateNotFound = errors.New("playoff state not found")
	ErrPlayoffStateConflict = errors.New("playoffs already started for this season")
	ErrBracketMatchNotFound = errors.New("bracket match not found")
)

type PlayoffRepository interface {
	CreateState(ctx context.Context, exec SQLExecutor, state *models.PlayoffState) error
	GetStateBySeason(ctx context.Context, seasonID int) (*models.PlayoffState, error)
	GetStateBySeasonForUpdate(ctx context.Context, exec SQLExecutor, seasonID int) (*models.PlayoffState, error)
	UpdateState(ctx context.Context, exec SQLExecutor, state *models.PlayoffState) error
	DeleteStateBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error

	CreateBracketMatch(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error
	ListBracketMatches(ctx context.Context, seasonID int) ([]*models.BracketMatch, error)
	ListBracketMatchesByRound(ctx context.Context, exec SQLExecutor, seasonID int, round models.PlayoffRound) ([]*models.BracketMatch, error)
	UpdateBracketMatchStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketMatchStatus) error
	CompleteBracketMatchByGame(ctx context.Context, exec SQLExecutor, gameID int) error
	ReopenBracketMatchByGame(ctx context.Context, exec SQLExecutor, gameID int) error
	DeleteBracketMatchesBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresPlayoffRepository struct {
	db *sql.DB
}

func NewPostgresPlayoffRepository(db *sql.DB) PlayoffRepository {
	return &postgresPlayoffRepository{db: db}
}

func (r *postgresPlayoffRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayoffRepository) CreateState(ctx context.Context, exec SQLExecutor, state *models.PlayoffState) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO playoff_states (season_id, current_round, field_size)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		state.SeasonID, state.CurrentRound, state.FieldSize,
	).Scan(&state.ID, &state.CreatedAt, &state.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrPlayoffStateConflict
	}
	return err
}

func (r *postgresPlayoffRepository) scanState(row interface{ Scan(...interface{}) error }) (*models.PlayoffState, error) {
	state := &models.PlayoffState{}
	err := row.Scan(
		&state.ID,
		&state.SeasonID,
		&state.CurrentRound,
		&state.FieldSize,
		&state.ChampionID,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayoffStateNotFound
		}
		return nil, err
	}
	return state, nil
}

const playoffStateColumns = `id, season_id, current_round, field_size, champion_id, created_at, updated_at`

func (r *postgresPlayoffRepository) GetStateBySeason(ctx context.Context, seasonID int) (*models.PlayoffState, error) {
	query := `SELECT ` + playoffStateColumns + ` FROM playoff_states WHERE season_id = $1`
	return r.scanState(r.db.QueryRowContext(ctx, query, seasonID))
}

// GetStateBySeasonForUpdate блокирует указатель раунда: два конкурентных
// advancePlayoffs сериализуются на этой строке.
func (r *postgresPlayoffRepository) GetStateBySeasonForUpdate(ctx context.Context, exec SQLExecutor, seasonID int) (*models.PlayoffState, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playoffStateColumns + ` FROM playoff_states WHERE season_id = $1 FOR UPDATE`
	return r.scanState(executor.QueryRowContext(ctx, query, seasonID))
}

func (r *postgresPlayoffRepository) UpdateState(ctx context.Context, exec SQLExecutor, state *models.PlayoffState) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE playoff_states
		SET current_round = $1, champion_id = $2, updated_at = NOW()
		WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, state.CurrentRound, state.ChampionID, state.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayoffStateNotFound)
}

func (r *postgresPlayoffRepository) DeleteStateBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM playoff_states WHERE season_id = $1`, seasonID)
	return err
}

func (r *postgresPlayoffRepository) CreateBracketMatch(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bracket_matches
			(season_id, round, higher_seed, higher_seed_team_id, lower_seed, lower_seed_team_id, game_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		match.SeasonID,
		match.Round,
		match.HigherSeed,
		match.HigherSeedTeamID,
		match.LowerSeed,
		match.LowerSeedTeamID,
		match.GameID,
		match.Status,
	).Scan(&match.ID)
}

const bracketMatchColumns = `id, season_id, round, higher_seed, higher_seed_team_id, lower_seed, lower_seed_team_id, game_id, status`

func (r *postgresPlayoffRepository) scanBracketMatch(row interface{ Scan(...interface{}) error }) (*models.BracketMatch, error) {
	match := &models.BracketMatch{}
	err := row.Scan(
		&match.ID,
		&match.SeasonID,
		&match.Round,
		&match.HigherSeed,
		&match.HigherSeedTeamID,
		&match.LowerSeed,
		&match.LowerSeedTeamID,
		&match.GameID,
		&match.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresPlayoffRepository) ListBracketMatches(ctx context.Context, seasonID int) ([]*models.BracketMatch, error) {
	query := `SELECT ` + bracketMatchColumns + ` FROM bracket_matches WHERE season_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectBracketMatches(rows)
}

func (r *postgresPlayoffRepository) ListBracketMatchesByRound(ctx context.Context, exec SQLExecutor, seasonID int, round models.PlayoffRound) ([]*models.BracketMatch, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + bracketMatchColumns + ` FROM bracket_matches WHERE season_id = $1 AND round = $2 ORDER BY higher_seed`
	rows, err := executor.QueryContext(ctx, query, seasonID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectBracketMatches(rows)
}

func (r *postgresPlayoffRepository) collectBracketMatches(rows *sql.Rows) ([]*models.BracketMatch, error) {
	matches := make([]*models.BracketMatch, 0)
	for rows.Next() {
		match, scanErr := r.scanBracketMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// CompleteBracketMatchByGame помечает матч сетки завершённым по id связанной
// игры. Для игр регулярного сезона связанного матча нет — это не ошибка.
func (r *postgresPlayoffRepository) CompleteBracketMatchByGame(ctx context.Context, exec SQLExecutor, gameID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE bracket_matches SET status = $1 WHERE game_id = $2`,
		models.BracketMatchCompleted, gameID,
	)
	return err
}

// ReopenBracketMatchByGame возвращает матч сетки в ожидание по id связанной
// игры (переигровка). Для игр регулярного сезона связанного матча нет — это
// не ошибка.
func (r *postgresPlayoffRepository) ReopenBracketMatchByGame(ctx context.Context, exec SQLExecutor, gameID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE bracket_matches SET status = $1 WHERE game_id = $2`,
		models.BracketMatchPending, gameID,
	)
	return err
}

// DeleteBracketMatchesBySeason чистит сетку сезона целиком; вызывается при
// принудительной перегенерации расписания, ноль строк допустим.
func (r *postgresPlayoffRepository) DeleteBracketMatchesBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM bracket_matches WHERE season_id = $1`, seasonID)
	return err
}

func (r *postgresPlayoffRepository) UpdateBracketMatchStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketMatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE bracket_matches SET status = $1 WHERE id = $2`, status, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketMatchNotFound)
}
