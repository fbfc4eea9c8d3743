package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auctionBid(id, playerID, teamID int, amount int64, createdAt time.Time) *models.FreeAgencyBid {
	return &models.FreeAgencyBid{
		ID:        id,
		PlayerID:  playerID,
		TeamID:    teamID,
		Amount:    amount,
		Status:    models.BidStatusOpen,
		CreatedAt: createdAt,
	}
}

func roundsBid(id, playerID, teamID, round int) *models.FreeAgencyBid {
	return &models.FreeAgencyBid{
		ID:          id,
		PlayerID:    playerID,
		TeamID:      teamID,
		RoundNumber: &round,
		Status:      models.BidStatusOpen,
	}
}

func TestGroupBidsAuctionOrdersByAmountThenTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bids := []*models.FreeAgencyBid{
		auctionBid(1, 10, 1, 2_000_000, base),
		auctionBid(2, 10, 2, 5_000_000, base.Add(time.Minute)),
		auctionBid(3, 10, 3, 5_000_000, base.Add(time.Second)), // та же сумма, но раньше
		auctionBid(4, 20, 1, 1_000_000, base),
	}

	groups := groupBids(bids, models.FreeAgencyAuction, nil)
	require.Len(t, groups, 2)

	// Группы идут по возрастанию player_id.
	require.Len(t, groups[0], 3)
	assert.Equal(t, 10, groups[0][0].PlayerID)
	assert.Equal(t, 3, groups[0][0].ID, "equal amounts: earlier bid wins")
	assert.Equal(t, 2, groups[0][1].ID)
	assert.Equal(t, 1, groups[0][2].ID)

	require.Len(t, groups[1], 1)
	assert.Equal(t, 20, groups[1][0].PlayerID)
}

func TestGroupBidsRoundsWorstTeamFirst(t *testing.T) {
	// rank: 0 — лучшая команда таблицы.
	rank := map[int]int{1: 0, 2: 1, 3: 2}
	bids := []*models.FreeAgencyBid{
		roundsBid(1, 10, 1, 1),
		roundsBid(2, 10, 3, 1),
		roundsBid(3, 10, 2, 1),
	}

	groups := groupBids(bids, models.FreeAgencyRounds, rank)
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0][0].TeamID, "worst-standing team claims first")
	assert.Equal(t, 2, groups[0][1].TeamID)
	assert.Equal(t, 1, groups[0][2].TeamID)
}

func TestGroupBidsRoundsAscendingRoundOrder(t *testing.T) {
	bids := []*models.FreeAgencyBid{
		roundsBid(1, 10, 1, 2),
		roundsBid(2, 10, 2, 1),
		roundsBid(3, 5, 1, 2),
	}

	groups := groupBids(bids, models.FreeAgencyRounds, nil)
	require.Len(t, groups, 3)
	// Раунд 1 раньше раунда 2; внутри раунда — по player_id.
	assert.Equal(t, 2, groups[0][0].ID)
	assert.Equal(t, 3, groups[1][0].ID)
	assert.Equal(t, 1, groups[2][0].ID)
}

func TestGroupBidsRoundsUnknownRankFallsBackToTeamID(t *testing.T) {
	bids := []*models.FreeAgencyBid{
		roundsBid(1, 10, 9, 1),
		roundsBid(2, 10, 4, 1),
	}

	groups := groupBids(bids, models.FreeAgencyRounds, map[int]int{})
	require.Len(t, groups, 1)
	assert.Equal(t, 4, groups[0][0].TeamID)
	assert.Equal(t, 9, groups[0][1].TeamID)
}

type faTeamRepo struct {
	repositories.TeamRepository
	team *models.Team
}

func (f *faTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	if f.team == nil || f.team.ID != id {
		return nil, repositories.ErrTeamNotFound
	}
	return f.team, nil
}

type faPlayerRepo struct {
	repositories.PlayerRepository
	player      *models.Player
	rosterCount int
	moves       []int
}

func (f *faPlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	if f.player == nil || f.player.ID != id {
		return nil, repositories.ErrPlayerNotFound
	}
	clone := *f.player
	return &clone, nil
}

func (f *faPlayerRepo) GetByIDForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	return f.GetByID(context.Background(), id)
}

func (f *faPlayerRepo) CountByTeam(_ context.Context, _ repositories.SQLExecutor, _ int) (int, error) {
	return f.rosterCount, nil
}

func (f *faPlayerRepo) UpdateTeam(_ context.Context, _ repositories.SQLExecutor, playerID int, teamID *int) error {
	f.player.TeamID = teamID
	f.moves = append(f.moves, playerID)
	return nil
}

type faContractRepo struct {
	repositories.ContractRepository
	created []*models.Contract
}

func (f *faContractRepo) ListByTeam(_ context.Context, _ repositories.SQLExecutor, _ int) ([]*models.Contract, error) {
	return f.created, nil
}

func (f *faContractRepo) Create(_ context.Context, _ repositories.SQLExecutor, contract *models.Contract) error {
	contract.ID = len(f.created) + 1
	f.created = append(f.created, contract)
	return nil
}

type faBidRepo struct {
	repositories.BidRepository
	clock clockwork.Clock
	bids  []*models.FreeAgencyBid
}

func (f *faBidRepo) Create(_ context.Context, bid *models.FreeAgencyBid) error {
	bid.ID = len(f.bids) + 1
	bid.CreatedAt = f.clock.Now()
	f.bids = append(f.bids, bid)
	return nil
}

func (f *faBidRepo) ListOpenExpired(_ context.Context, _ repositories.SQLExecutor, leagueID int, now time.Time) ([]*models.FreeAgencyBid, error) {
	expired := make([]*models.FreeAgencyBid, 0)
	for _, bid := range f.bids {
		if bid.LeagueID != leagueID || bid.Status != models.BidStatusOpen {
			continue
		}
		if bid.ExpiresAt != nil && !bid.ExpiresAt.After(now) {
			expired = append(expired, bid)
		}
	}
	return expired, nil
}

func (f *faBidRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.BidStatus, resolvedAt time.Time) error {
	for _, bid := range f.bids {
		if bid.ID == id {
			bid.Status = status
			bid.ResolvedAt = &resolvedAt
			return nil
		}
	}
	return repositories.ErrBidNotFound
}

type faSeasonRepo struct {
	repositories.SeasonRepository
}

func (f *faSeasonRepo) GetLatestByLeague(_ context.Context, _ int) (*models.Season, error) {
	return nil, repositories.ErrSeasonNotFound
}

func newAuctionFixture(t *testing.T) (FreeAgencyService, *clockwork.FakeClock, *faPlayerRepo, *faContractRepo, *faBidRepo) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	teamID := 2
	league := &models.League{
		ID:              1,
		SalaryCap:       50_000_000,
		RosterSizeLimit: 53,
		FreeAgencyMode:  models.FreeAgencyAuction,
	}
	playerRepo := &faPlayerRepo{player: &models.Player{ID: 10, LeagueID: 1}}
	contractRepo := &faContractRepo{}
	bidRepo := &faBidRepo{clock: clock}
	svc := NewFreeAgencyService(
		newServiceDB(t),
		&fakeLeagueRepo{league: league},
		&faTeamRepo{team: &models.Team{ID: teamID, LeagueID: 1}},
		playerRepo,
		contractRepo,
		bidRepo,
		&faSeasonRepo{},
		nil,
		clock,
		time.Hour,
		discardLogger(),
		&eventRecorder{},
	)
	return svc, clock, playerRepo, contractRepo, bidRepo
}

// Аукционная заявка живёт до конца своего окна: резолюция до expires_at её не
// трогает, после — награждает с годовым контрактом на сумму ставки.
func TestAuctionResolveRespectsBidWindow(t *testing.T) {
	svc, clock, playerRepo, contractRepo, bidRepo := newAuctionFixture(t)
	ctx := context.Background()

	bid, err := svc.PlaceBid(ctx, 1, PlaceBidInput{PlayerID: 10, TeamID: 2, Amount: 5_000_000})
	require.NoError(t, err)
	require.NotNil(t, bid.ExpiresAt)

	clock.Advance(30 * time.Minute)
	report, err := svc.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, report.Awarded)
	assert.Zero(t, report.Expired)
	assert.Equal(t, models.BidStatusOpen, bidRepo.bids[0].Status, "bid window has not elapsed")
	assert.Empty(t, playerRepo.moves)
	assert.Empty(t, contractRepo.created)

	clock.Advance(31 * time.Minute)
	report, err = svc.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Awarded)
	assert.Equal(t, models.BidStatusWon, bidRepo.bids[0].Status)

	require.NotNil(t, playerRepo.player.TeamID)
	assert.Equal(t, 2, *playerRepo.player.TeamID)
	require.Len(t, contractRepo.created, 1)
	contract := contractRepo.created[0]
	assert.Equal(t, int64(5_000_000), contract.Salary)
	assert.Equal(t, 1, contract.Years)
	assert.Equal(t, 2026, contract.StartYear)
}
