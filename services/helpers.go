package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// withTx выполняет fn в транзакции: rollback при ошибке или панике, commit
// иначе. Все мультистрочные мутации сервисного слоя идут через этот хелпер.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapRepoError переводит ошибки «не найдено» репозиториев в общий ErrNotFound,
// остальные пропускает как есть.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrLeagueNotFound),
		errors.Is(err, repositories.ErrConferenceNotFound),
		errors.Is(err, repositories.ErrDivisionNotFound),
		errors.Is(err, repositories.ErrTeamNotFound),
		errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrContractNotFound),
		errors.Is(err, repositories.ErrSeasonNotFound),
		errors.Is(err, repositories.ErrWeekNotFound),
		errors.Is(err, repositories.ErrGameNotFound),
		errors.Is(err, repositories.ErrPlayoffStateNotFound),
		errors.Is(err, repositories.ErrBracketMatchNotFound),
		errors.Is(err, repositories.ErrBidNotFound),
		errors.Is(err, repositories.ErrTradeNotFound),
		errors.Is(err, repositories.ErrDraftNotFound),
		errors.Is(err, repositories.ErrDraftPickNotFound),
		errors.Is(err, repositories.ErrWaiverNotFound),
		errors.Is(err, repositories.ErrInjuryNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	default:
		return err
	}
}

// teamCapUsage суммирует cap hit всех контрактов команды.
func teamCapUsage(ctx context.Context, contractRepo repositories.ContractRepository, exec repositories.SQLExecutor, teamID int) (int64, error) {
	contracts, err := contractRepo.ListByTeam(ctx, exec, teamID)
	if err != nil {
		return 0, err
	}
	var usage int64
	for _, c := range contracts {
		usage += c.CapHit()
	}
	return usage, nil
}

// checkCapRoom проверяет, влезает ли дополнительная нагрузка в потолок лиги.
// При allow_cap_growth проверка отключена.
func checkCapRoom(ctx context.Context, contractRepo repositories.ContractRepository, exec repositories.SQLExecutor, league *models.League, teamID int, additional int64) error {
	if league.AllowCapGrowth {
		return nil
	}
	usage, err := teamCapUsage(ctx, contractRepo, exec, teamID)
	if err != nil {
		return err
	}
	if usage+additional > league.SalaryCap {
		return &CapExceededError{TeamID: teamID, CapUsage: usage + additional, SalaryCap: league.SalaryCap}
	}
	return nil
}

// checkRosterRoom проверяет лимит состава для добавления add игроков.
func checkRosterRoom(ctx context.Context, playerRepo repositories.PlayerRepository, exec repositories.SQLExecutor, league *models.League, teamID, add int) error {
	size, err := playerRepo.CountByTeam(ctx, exec, teamID)
	if err != nil {
		return err
	}
	if size+add > league.RosterSizeLimit {
		return &RosterLimitError{TeamID: teamID, Size: size + add, Limit: league.RosterSizeLimit}
	}
	return nil
}
