package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItemShape(t *testing.T) {
	playerID := 10
	pickID := 20
	cash := int64(1_000_000)
	badCash := int64(0)

	tests := []struct {
		name    string
		item    TradeItemInput
		wantErr bool
	}{
		{
			"valid player item",
			TradeItemInput{Kind: models.TradeItemPlayer, PlayerID: &playerID, FromTeamID: 1, ToTeamID: 2},
			false,
		},
		{
			"valid pick item",
			TradeItemInput{Kind: models.TradeItemPick, PickID: &pickID, FromTeamID: 2, ToTeamID: 1},
			false,
		},
		{
			"valid cash item",
			TradeItemInput{Kind: models.TradeItemCash, CashAmount: &cash, FromTeamID: 1, ToTeamID: 2},
			false,
		},
		{
			"player item without player_id",
			TradeItemInput{Kind: models.TradeItemPlayer, FromTeamID: 1, ToTeamID: 2},
			true,
		},
		{
			"player item with extra pick_id",
			TradeItemInput{Kind: models.TradeItemPlayer, PlayerID: &playerID, PickID: &pickID, FromTeamID: 1, ToTeamID: 2},
			true,
		},
		{
			"cash item with non-positive amount",
			TradeItemInput{Kind: models.TradeItemCash, CashAmount: &badCash, FromTeamID: 1, ToTeamID: 2},
			true,
		},
		{
			"unknown kind",
			TradeItemInput{Kind: "stadium", FromTeamID: 1, ToTeamID: 2},
			true,
		},
		{
			"item staying with the same team",
			TradeItemInput{Kind: models.TradeItemPlayer, PlayerID: &playerID, FromTeamID: 1, ToTeamID: 1},
			true,
		},
		{
			"item involving a third team",
			TradeItemInput{Kind: models.TradeItemPlayer, PlayerID: &playerID, FromTeamID: 1, ToTeamID: 3},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateItemShape(tt.item, 1, 2)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type fakeTradeRepo struct {
	repositories.TradeRepository
	trade         *models.Trade
	statusUpdates []models.TradeStatus
}

func (f *fakeTradeRepo) GetByIDForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Trade, error) {
	if f.trade == nil || f.trade.ID != id {
		return nil, repositories.ErrTradeNotFound
	}
	clone := *f.trade
	return &clone, nil
}

func (f *fakeTradeRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TradeStatus) error {
	if f.trade == nil || f.trade.ID != id {
		return repositories.ErrTradeNotFound
	}
	f.trade.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

type rosterPlayerRepo struct {
	repositories.PlayerRepository
	players map[int]*models.Player
	counts  map[int]int
	moves   []int
}

func (f *rosterPlayerRepo) GetByIDForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	player, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	clone := *player
	return &clone, nil
}

func (f *rosterPlayerRepo) CountByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) (int, error) {
	return f.counts[teamID], nil
}

func (f *rosterPlayerRepo) UpdateTeam(_ context.Context, _ repositories.SQLExecutor, playerID int, teamID *int) error {
	f.players[playerID].TeamID = teamID
	f.moves = append(f.moves, playerID)
	return nil
}

type missingContractRepo struct {
	repositories.ContractRepository
}

func (missingContractRepo) GetByPlayerID(_ context.Context, _ repositories.SQLExecutor, _ int) (*models.Contract, error) {
	return nil, repositories.ErrContractNotFound
}

func newAcceptFixture(t *testing.T, receiverRosterSize int) (TradeService, *fakeTradeRepo, *rosterPlayerRepo) {
	t.Helper()
	fromTeam := 1
	playerID := 10
	league := &models.League{ID: 1, SalaryCap: 100_000_000, RosterSizeLimit: 53}
	tradeRepo := &fakeTradeRepo{trade: &models.Trade{
		ID:         7,
		LeagueID:   1,
		FromTeamID: 1,
		ToTeamID:   2,
		Status:     models.TradeStatusProposed,
		Items: []models.TradeItem{{
			Kind:       models.TradeItemPlayer,
			PlayerID:   &playerID,
			FromTeamID: 1,
			ToTeamID:   2,
		}},
	}}
	playerRepo := &rosterPlayerRepo{
		players: map[int]*models.Player{10: {ID: 10, LeagueID: 1, TeamID: &fromTeam}},
		counts:  map[int]int{1: 40, 2: receiverRosterSize},
	}
	svc := NewTradeService(
		newServiceDB(t),
		&fakeLeagueRepo{league: league},
		nil,
		playerRepo,
		missingContractRepo{},
		nil,
		tradeRepo,
		&eventRecorder{},
	)
	return svc, tradeRepo, playerRepo
}

// Принятие трейда — всё или ничего: если принимающая сторона упирается в
// лимит состава, ни один актив не переезжает и статус трейда не меняется.
func TestAcceptRejectedAtRosterLimitLeavesTradeUntouched(t *testing.T) {
	svc, tradeRepo, playerRepo := newAcceptFixture(t, 53)

	_, err := svc.Accept(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var rosterErr *RosterLimitError
	require.ErrorAs(t, err, &rosterErr)
	assert.Equal(t, 2, rosterErr.TeamID)

	assert.Empty(t, playerRepo.moves)
	assert.Empty(t, tradeRepo.statusUpdates)
	assert.Equal(t, models.TradeStatusProposed, tradeRepo.trade.Status)
	require.NotNil(t, playerRepo.players[10].TeamID)
	assert.Equal(t, 1, *playerRepo.players[10].TeamID)
}

func TestAcceptMovesPlayerWhenRoomAllows(t *testing.T) {
	svc, tradeRepo, playerRepo := newAcceptFixture(t, 52)

	trade, err := svc.Accept(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, trade.Status)
	assert.Equal(t, []models.TradeStatus{models.TradeStatusAccepted}, tradeRepo.statusUpdates)
	assert.Equal(t, []int{10}, playerRepo.moves)
	assert.Equal(t, 2, *playerRepo.players[10].TeamID)
}
