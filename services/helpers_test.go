package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейки переопределяют только нужный метод; обращение к остальным — паника,
// то есть тест сразу покажет неожиданный вызов.
type fakeContractRepo struct {
	repositories.ContractRepository
	contracts []*models.Contract
}

func (f *fakeContractRepo) ListByTeam(_ context.Context, _ repositories.SQLExecutor, _ int) ([]*models.Contract, error) {
	return f.contracts, nil
}

type fakePlayerRepo struct {
	repositories.PlayerRepository
	count int
}

func (f *fakePlayerRepo) CountByTeam(_ context.Context, _ repositories.SQLExecutor, _ int) (int, error) {
	return f.count, nil
}

func TestTeamCapUsageAmortizesBonus(t *testing.T) {
	repo := &fakeContractRepo{contracts: []*models.Contract{
		{Salary: 10_000_000, Bonus: 4_000_000, Years: 4}, // cap hit 11M
		{Salary: 840_000, Years: 1},                      // cap hit 840k
	}}

	usage, err := teamCapUsage(context.Background(), repo, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(11_840_000), usage)
}

func TestCheckCapRoom(t *testing.T) {
	league := &models.League{SalaryCap: 20_000_000}
	repo := &fakeContractRepo{contracts: []*models.Contract{
		{Salary: 15_000_000, Years: 1},
	}}

	t.Run("fits", func(t *testing.T) {
		assert.NoError(t, checkCapRoom(context.Background(), repo, nil, league, 1, 5_000_000))
	})

	t.Run("exceeds", func(t *testing.T) {
		err := checkCapRoom(context.Background(), repo, nil, league, 1, 5_000_001)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)

		var capErr *CapExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, int64(20_000_001), capErr.CapUsage)
		assert.Equal(t, league.SalaryCap, capErr.SalaryCap)
	})

	t.Run("cap growth disables the check", func(t *testing.T) {
		growth := &models.League{SalaryCap: 1, AllowCapGrowth: true}
		assert.NoError(t, checkCapRoom(context.Background(), repo, nil, growth, 1, 100_000_000))
	})
}

func TestCheckRosterRoom(t *testing.T) {
	league := &models.League{RosterSizeLimit: 53}

	t.Run("fits", func(t *testing.T) {
		repo := &fakePlayerRepo{count: 52}
		assert.NoError(t, checkRosterRoom(context.Background(), repo, nil, league, 1, 1))
	})

	t.Run("full roster", func(t *testing.T) {
		repo := &fakePlayerRepo{count: 53}
		err := checkRosterRoom(context.Background(), repo, nil, league, 1, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)

		var rosterErr *RosterLimitError
		require.ErrorAs(t, err, &rosterErr)
		assert.Equal(t, 54, rosterErr.Size)
		assert.Equal(t, 53, rosterErr.Limit)
	})

	t.Run("multi-player delta", func(t *testing.T) {
		repo := &fakePlayerRepo{count: 51}
		assert.NoError(t, checkRosterRoom(context.Background(), repo, nil, league, 1, 2))
		assert.Error(t, checkRosterRoom(context.Background(), repo, nil, league, 1, 3))
	})
}
