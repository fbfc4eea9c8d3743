package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGameRepo struct {
	repositories.GameRepository
	game *models.Game
}

func (f *fakeGameRepo) GetByIDForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	if f.game == nil || f.game.ID != id {
		return nil, repositories.ErrGameNotFound
	}
	clone := *f.game
	return &clone, nil
}

func (f *fakeGameRepo) CompleteGame(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	clone := *game
	f.game = &clone
	return nil
}

func (f *fakeGameRepo) ReopenGame(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if f.game == nil || f.game.ID != id {
		return repositories.ErrGameNotFound
	}
	f.game.HomeScore = nil
	f.game.AwayScore = nil
	f.game.WinnerID = nil
	f.game.LoserID = nil
	f.game.Status = models.GameStatusScheduled
	return nil
}

type fakeBracketStatusRepo struct {
	repositories.PlayoffRepository
	statusByGame map[int]models.BracketMatchStatus
}

func (f *fakeBracketStatusRepo) CompleteBracketMatchByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) error {
	if _, ok := f.statusByGame[gameID]; ok {
		f.statusByGame[gameID] = models.BracketMatchCompleted
	}
	return nil
}

func (f *fakeBracketStatusRepo) ReopenBracketMatchByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) error {
	if _, ok := f.statusByGame[gameID]; ok {
		f.statusByGame[gameID] = models.BracketMatchPending
	}
	return nil
}

type fakeWeekSeasonRepo struct {
	repositories.SeasonRepository
	week   *models.Week
	season *models.Season
}

func (f *fakeWeekSeasonRepo) GetWeekByID(_ context.Context, id int) (*models.Week, error) {
	if f.week == nil || f.week.ID != id {
		return nil, repositories.ErrWeekNotFound
	}
	return f.week, nil
}

func (f *fakeWeekSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	if f.season == nil || f.season.ID != id {
		return nil, repositories.ErrSeasonNotFound
	}
	return f.season, nil
}

func newPlayoffGameFixture(t *testing.T) (GameService, *fakeGameRepo, *fakeBracketStatusRepo, *eventRecorder) {
	t.Helper()
	gameRepo := &fakeGameRepo{game: &models.Game{
		ID:         17,
		WeekID:     5,
		HomeTeamID: 1,
		AwayTeamID: 2,
		Status:     models.GameStatusScheduled,
	}}
	playoffRepo := &fakeBracketStatusRepo{statusByGame: map[int]models.BracketMatchStatus{
		17: models.BracketMatchPending,
	}}
	seasonRepo := &fakeWeekSeasonRepo{
		week:   &models.Week{ID: 5, SeasonID: 3, Number: 7, IsPlayoffs: true},
		season: &models.Season{ID: 3, LeagueID: 9, Year: 2026},
	}
	sink := &eventRecorder{}
	svc := NewGameService(newServiceDB(t), gameRepo, seasonRepo, playoffRepo, sink)
	return svc, gameRepo, playoffRepo, sink
}

// Игра плей-офф, закончившаяся вничью, не даёт победителя и блокирует
// продвижение раунда. Переоткрытие возвращает её в расписание, а матч сетки —
// в ожидание, так что переигровка возможна обычным завершением.
func TestReopenResetsTiedPlayoffGame(t *testing.T) {
	svc, gameRepo, playoffRepo, sink := newPlayoffGameFixture(t)
	ctx := context.Background()

	game, err := svc.Complete(ctx, 17, 21, 21)
	require.NoError(t, err)
	assert.Nil(t, game.WinnerID)
	assert.Equal(t, models.BracketMatchCompleted, playoffRepo.statusByGame[17])

	game, err = svc.Reopen(ctx, 17)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusScheduled, game.Status)
	assert.Nil(t, game.HomeScore)
	assert.Nil(t, game.AwayScore)
	assert.Nil(t, game.WinnerID)
	assert.Nil(t, game.LoserID)

	assert.Equal(t, models.GameStatusScheduled, gameRepo.game.Status)
	assert.Equal(t, models.BracketMatchPending, playoffRepo.statusByGame[17])

	// Переигровка с решающим счётом проходит без дополнительных условий.
	game, err = svc.Complete(ctx, 17, 28, 21)
	require.NoError(t, err)
	require.NotNil(t, game.WinnerID)
	assert.Equal(t, 1, *game.WinnerID)
	assert.Equal(t, models.BracketMatchCompleted, playoffRepo.statusByGame[17])

	assert.Equal(t, []events.EventType{
		events.GameCompleted, events.GameReopened, events.GameCompleted,
	}, sink.types())
}

func TestReopenRequiresCompletedGame(t *testing.T) {
	svc, gameRepo, _, _ := newPlayoffGameFixture(t)

	_, err := svc.Reopen(context.Background(), 17)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, models.GameStatusScheduled, gameRepo.game.Status)
}

func TestReopenUnknownGame(t *testing.T) {
	svc, _, _, _ := newPlayoffGameFixture(t)

	_, err := svc.Reopen(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
