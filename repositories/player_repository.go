package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	ListFreeAgents(ctx context.Context, leagueID int) ([]*models.Player, error)
	ListRookiePool(ctx context.Context, leagueID int) ([]*models.Player, error)
	CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error)
	UpdateTeam(ctx context.Context, exec SQLExecutor, playerID int, teamID *int) error
	ClearRookieFlag(ctx context.Context, exec SQLExecutor, playerID int) error
	UpdateInjuryStatus(ctx context.Context, exec SQLExecutor, playerID int, status string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerColumns = `id, league_id, team_id, first_name, last_name, position, age,
	height_inches, weight_lbs, overall_rating, potential_rating, injury_status,
	is_rookie_pool, created_at, updated_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players
			(league_id, team_id, first_name, last_name, position, age, height_inches,
			 weight_lbs, overall_rating, potential_rating, injury_status, is_rookie_pool)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	return executor.QueryRowContext(ctx, query,
		player.LeagueID,
		player.TeamID,
		player.FirstName,
		player.LastName,
		player.Position,
		player.Age,
		player.HeightInches,
		player.WeightLbs,
		player.OverallRating,
		player.PotentialRating,
		player.InjuryStatus,
		player.IsRookiePool,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)
}

func (r *postgresPlayerRepository) scanPlayer(row interface{ Scan(...interface{}) error }) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.LeagueID,
		&player.TeamID,
		&player.FirstName,
		&player.LastName,
		&player.Position,
		&player.Age,
		&player.HeightInches,
		&player.WeightLbs,
		&player.OverallRating,
		&player.PotentialRating,
		&player.InjuryStatus,
		&player.IsRookiePool,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate блокирует строку игрока до конца транзакции — защита от
// двойного начисления одного игрока конкурентными резолюциями.
func (r *postgresPlayerRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY position, last_name, first_name`
	return r.queryPlayers(ctx, query, teamID)
}

func (r *postgresPlayerRepository) ListFreeAgents(ctx context.Context, leagueID int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players
		WHERE league_id = $1 AND team_id IS NULL AND NOT is_rookie_pool
		ORDER BY overall_rating DESC, id`
	return r.queryPlayers(ctx, query, leagueID)
}

func (r *postgresPlayerRepository) ListRookiePool(ctx context.Context, leagueID int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players
		WHERE league_id = $1 AND is_rookie_pool AND team_id IS NULL
		ORDER BY overall_rating DESC, id`
	return r.queryPlayers(ctx, query, leagueID)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE team_id = $1`, teamID).Scan(&count)
	return count, err
}

func (r *postgresPlayerRepository) UpdateTeam(ctx context.Context, exec SQLExecutor, playerID int, teamID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE players SET team_id = $1, updated_at = NOW() WHERE id = $2`,
		teamID, playerID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ClearRookieFlag(ctx context.Context, exec SQLExecutor, playerID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE players SET is_rookie_pool = FALSE, updated_at = NOW() WHERE id = $1`,
		playerID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateInjuryStatus(ctx context.Context, exec SQLExecutor, playerID int, status string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE players SET injury_status = $1, updated_at = NOW() WHERE id = $2`,
		status, playerID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
