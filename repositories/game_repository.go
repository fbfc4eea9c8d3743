package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByWeek(ctx context.Context, weekID int) ([]*models.Game, error)
	ListBySeason(ctx context.Context, seasonID int) ([]*models.Game, error)
	CountCompletedBySeason(ctx context.Context, seasonID int) (int, error)
	CompleteGame(ctx context.Context, exec SQLExecutor, game *models.Game) error
	ReopenGame(ctx context.Context, exec SQLExecutor, gameID int) error
	UpdateWeek(ctx context.Context, exec SQLExecutor, gameID, weekID int) error
	DeleteByTeam(ctx context.Context, exec SQLExecutor, leagueID, teamID int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, week_id, home_team_id, away_team_id, home_score, away_score, status, winner_id, loser_id, created_at`

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (week_id, home_team_id, away_team_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if game.Status == "" {
		game.Status = models.GameStatusScheduled
	}
	return executor.QueryRowContext(ctx, query,
		game.WeekID, game.HomeTeamID, game.AwayTeamID, game.Status,
	).Scan(&game.ID, &game.CreatedAt)
}

func (r *postgresGameRepository) scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID,
		&game.WeekID,
		&game.HomeTeamID,
		&game.AwayTeamID,
		&game.HomeScore,
		&game.AwayScore,
		&game.Status,
		&game.WinnerID,
		&game.LoserID,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return r.scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) ListByWeek(ctx context.Context, weekID int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE week_id = $1 ORDER BY id`
	return r.queryGames(ctx, query, weekID)
}

func (r *postgresGameRepository) ListBySeason(ctx context.Context, seasonID int) ([]*models.Game, error) {
	query := `
		SELECT g.id, g.week_id, g.home_team_id, g.away_team_id, g.home_score, g.away_score,
			g.status, g.winner_id, g.loser_id, g.created_at
		FROM games g
		JOIN weeks w ON w.id = g.week_id
		WHERE w.season_id = $1
		ORDER BY w.number, g.id`
	return r.queryGames(ctx, query, seasonID)
}

func (r *postgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game, scanErr := r.scanGame(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *postgresGameRepository) CountCompletedBySeason(ctx context.Context, seasonID int) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM games g
		JOIN weeks w ON w.id = g.week_id
		WHERE w.season_id = $1 AND g.status = $2`
	err := r.db.QueryRowContext(ctx, query, seasonID, models.GameStatusCompleted).Scan(&count)
	return count, err
}

func (r *postgresGameRepository) CompleteGame(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games
		SET home_score = $1, away_score = $2, status = $3, winner_id = $4, loser_id = $5
		WHERE id = $6`
	result, err := executor.ExecContext(ctx, query,
		game.HomeScore, game.AwayScore, game.Status, game.WinnerID, game.LoserID, game.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// ReopenGame возвращает игру в расписание: счёт и исход сбрасываются.
func (r *postgresGameRepository) ReopenGame(ctx context.Context, exec SQLExecutor, gameID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games
		SET home_score = NULL, away_score = NULL, status = $1, winner_id = NULL, loser_id = NULL
		WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, models.GameStatusScheduled, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateWeek(ctx context.Context, exec SQLExecutor, gameID, weekID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE games SET week_id = $1 WHERE id = $2`, weekID, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// DeleteByTeam убирает игры команды из всех сезонов лиги (используется при
// удалении команды, как и в исходной системе).
func (r *postgresGameRepository) DeleteByTeam(ctx context.Context, exec SQLExecutor, leagueID, teamID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM games
		WHERE (home_team_id = $2 OR away_team_id = $2)
		  AND week_id IN (
			SELECT w.id FROM weeks w
			JOIN seasons s ON s.id = w.season_id
			WHERE s.league_id = $1
		  )`
	_, err := executor.ExecContext(ctx, query, leagueID, teamID)
	return err
}
