package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStructureLeagueRepo struct {
	repositories.LeagueRepository
	league *models.League
}

func (f *fakeStructureLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	if f.league == nil || f.league.ID != id {
		return nil, repositories.ErrLeagueNotFound
	}
	return f.league, nil
}

func (f *fakeStructureLeagueRepo) ListConferences(_ context.Context, leagueID int) ([]*models.Conference, error) {
	return []*models.Conference{{ID: 1, LeagueID: leagueID, Name: "Conference 1"}}, nil
}

func (f *fakeStructureLeagueRepo) ListDivisions(_ context.Context, conferenceID int) ([]*models.Division, error) {
	return []*models.Division{{ID: 1, ConferenceID: conferenceID, Name: "Division 1"}}, nil
}

type fakeDivisionTeamRepo struct {
	repositories.TeamRepository
	teamIDs []int
}

func (f *fakeDivisionTeamRepo) ListByDivision(_ context.Context, _ int) ([]*models.Team, error) {
	teams := make([]*models.Team, 0, len(f.teamIDs))
	for _, id := range f.teamIDs {
		teams = append(teams, &models.Team{ID: id})
	}
	return teams, nil
}

type fakeScheduleSeasonRepo struct {
	repositories.SeasonRepository
	season       *models.Season
	weeksDeleted int
	nextWeekID   int
}

func (f *fakeScheduleSeasonRepo) GetOrCreate(_ context.Context, _ repositories.SQLExecutor, leagueID, year int) (*models.Season, error) {
	if f.season == nil {
		f.season = &models.Season{ID: 3, LeagueID: leagueID, Year: year}
	}
	return f.season, nil
}

func (f *fakeScheduleSeasonRepo) DeleteWeeks(_ context.Context, _ repositories.SQLExecutor, _ int, _ bool) error {
	f.weeksDeleted++
	return nil
}

func (f *fakeScheduleSeasonRepo) CreateWeek(_ context.Context, _ repositories.SQLExecutor, week *models.Week) error {
	f.nextWeekID++
	week.ID = f.nextWeekID
	return nil
}

func (f *fakeScheduleSeasonRepo) CreateBye(_ context.Context, _ repositories.SQLExecutor, bye *models.Bye) error {
	return nil
}

type fakeScheduleGameRepo struct {
	repositories.GameRepository
	completed  int
	created    int
	nextGameID int
}

func (f *fakeScheduleGameRepo) CountCompletedBySeason(_ context.Context, _ int) (int, error) {
	return f.completed, nil
}

func (f *fakeScheduleGameRepo) Create(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	f.nextGameID++
	game.ID = f.nextGameID
	f.created++
	return nil
}

type fakePlayoffCleanupRepo struct {
	repositories.PlayoffRepository
	statesDeleted  []int
	bracketDeleted []int
}

func (f *fakePlayoffCleanupRepo) DeleteStateBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) error {
	f.statesDeleted = append(f.statesDeleted, seasonID)
	return nil
}

func (f *fakePlayoffCleanupRepo) DeleteBracketMatchesBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) error {
	f.bracketDeleted = append(f.bracketDeleted, seasonID)
	return nil
}

func newScheduleFixture(t *testing.T, completed int) (ScheduleService, *fakeScheduleSeasonRepo, *fakeScheduleGameRepo, *fakePlayoffCleanupRepo) {
	t.Helper()
	leagueRepo := &fakeStructureLeagueRepo{league: &models.League{ID: 9}}
	teamRepo := &fakeDivisionTeamRepo{teamIDs: []int{1, 2, 3, 4}}
	seasonRepo := &fakeScheduleSeasonRepo{}
	gameRepo := &fakeScheduleGameRepo{completed: completed}
	playoffRepo := &fakePlayoffCleanupRepo{}
	svc := NewScheduleService(newServiceDB(t), leagueRepo, teamRepo, seasonRepo, gameRepo, playoffRepo, 0, &eventRecorder{})
	return svc, seasonRepo, gameRepo, playoffRepo
}

// Принудительная перегенерация сносит не только недели, но и состояние
// плей-офф с сеткой — иначе сетка держала бы ссылки на удалённые игры, а
// повторный запуск плей-офф упирался бы в уже существующее состояние.
func TestGenerateForceClearsPlayoffRows(t *testing.T) {
	svc, seasonRepo, gameRepo, playoffRepo := newScheduleFixture(t, 2)

	season, err := svc.Generate(context.Background(), 9, 2026, true)
	require.NoError(t, err)

	assert.Equal(t, []int{season.ID}, playoffRepo.bracketDeleted)
	assert.Equal(t, []int{season.ID}, playoffRepo.statesDeleted)
	assert.Equal(t, 1, seasonRepo.weeksDeleted)
	// Двойной круговой турнир на четыре команды: 6 недель по 2 игры.
	assert.Len(t, season.Weeks, 6)
	assert.Equal(t, 12, gameRepo.created)
}

func TestGenerateWithCompletedGamesConflictsWithoutForce(t *testing.T) {
	svc, seasonRepo, _, playoffRepo := newScheduleFixture(t, 2)

	_, err := svc.Generate(context.Background(), 9, 2026, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, playoffRepo.statesDeleted)
	assert.Empty(t, playoffRepo.bracketDeleted)
	assert.Zero(t, seasonRepo.weeksDeleted)
}

func TestGenerateFreshSeasonClearsStalePlayoffRows(t *testing.T) {
	svc, _, _, playoffRepo := newScheduleFixture(t, 0)

	season, err := svc.Generate(context.Background(), 9, 2026, false)
	require.NoError(t, err)
	assert.Equal(t, []int{season.ID}, playoffRepo.statesDeleted)
	assert.Equal(t, []int{season.ID}, playoffRepo.bracketDeleted)
}
