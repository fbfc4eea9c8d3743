package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrContractConflict = errors.New("player already has an active contract")
)

type ContractRepository interface {
	Create(ctx context.Context, exec SQLExecutor, contract *models.Contract) error
	GetByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) (*models.Contract, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Contract, error)
	Update(ctx context.Context, exec SQLExecutor, contract *models.Contract) error
	UpdateTeam(ctx context.Context, exec SQLExecutor, contractID, teamID int) error
	DeleteByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) error
}

type postgresContractRepository struct {
	db *sql.DB
}

func NewPostgresContractRepository(db *sql.DB) ContractRepository {
	return &postgresContractRepository{db: db}
}

func (r *postgresContractRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const contractColumns = `id, player_id, team_id, salary, bonus, years, start_year, created_at, updated_at`

func (r *postgresContractRepository) Create(ctx context.Context, exec SQLExecutor, contract *models.Contract) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO contracts (player_id, team_id, salary, bonus, years, start_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		contract.PlayerID,
		contract.TeamID,
		contract.Salary,
		contract.Bonus,
		contract.Years,
		contract.StartYear,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrContractConflict
	}
	return err
}

func (r *postgresContractRepository) scanContract(row interface{ Scan(...interface{}) error }) (*models.Contract, error) {
	contract := &models.Contract{}
	err := row.Scan(
		&contract.ID,
		&contract.PlayerID,
		&contract.TeamID,
		&contract.Salary,
		&contract.Bonus,
		&contract.Years,
		&contract.StartYear,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (r *postgresContractRepository) GetByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) (*models.Contract, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE player_id = $1`
	return r.scanContract(executor.QueryRowContext(ctx, query, playerID))
}

func (r *postgresContractRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Contract, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE team_id = $1 ORDER BY player_id`
	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := make([]*models.Contract, 0)
	for rows.Next() {
		contract, scanErr := r.scanContract(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		contracts = append(contracts, contract)
	}
	return contracts, rows.Err()
}

func (r *postgresContractRepository) Update(ctx context.Context, exec SQLExecutor, contract *models.Contract) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE contracts
		SET salary = $1, bonus = $2, years = $3, start_year = $4, updated_at = NOW()
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query,
		contract.Salary, contract.Bonus, contract.Years, contract.StartYear, contract.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrContractNotFound)
}

func (r *postgresContractRepository) UpdateTeam(ctx context.Context, exec SQLExecutor, contractID, teamID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE contracts SET team_id = $1, updated_at = NOW() WHERE id = $2`,
		teamID, contractID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrContractNotFound)
}

func (r *postgresContractRepository) DeleteByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM contracts WHERE player_id = $1`, playerID)
	return err
}
