package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type PlayoffBracket struct {
	State   *models.PlayoffState   `json:"state"`
	Matches []*models.BracketMatch `json:"matches"`
}

type PlayoffService interface {
	Seeds(ctx context.Context, leagueID, year int) ([]models.PlayoffSeed, error)
	Start(ctx context.Context, leagueID, year int) (*PlayoffBracket, error)
	Bracket(ctx context.Context, leagueID, year int) (*PlayoffBracket, error)
	Advance(ctx context.Context, leagueID, year int) (*PlayoffBracket, error)
}

type playoffService struct {
	db           *sql.DB
	leagueRepo   repositories.LeagueRepository
	teamRepo     repositories.TeamRepository
	seasonRepo   repositories.SeasonRepository
	gameRepo     repositories.GameRepository
	playoffRepo  repositories.PlayoffRepository
	standingsSvc StandingsService
	sink         events.Sink
}

func NewPlayoffService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	gameRepo repositories.GameRepository,
	playoffRepo repositories.PlayoffRepository,
	standingsSvc StandingsService,
	sink events.Sink,
) PlayoffService {
	return &playoffService{
		db:           db,
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		seasonRepo:   seasonRepo,
		gameRepo:     gameRepo,
		playoffRepo:  playoffRepo,
		standingsSvc: standingsSvc,
		sink:         sink,
	}
}

// Seeds возвращает посев плей-офф из текущей таблицы: первые K команд в
// порядке сортировки standings.
func (s *playoffService) Seeds(ctx context.Context, leagueID, year int) ([]models.PlayoffSeed, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	table, err := s.standingsSvc.GetByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return nil, err
	}

	k := brackets.FieldSize(league.AllowPlayoffExpansion)
	if k > len(table) {
		k = len(table)
	}

	seeds := make([]models.PlayoffSeed, 0, k)
	for i := 0; i < k; i++ {
		row := table[i]
		seeds = append(seeds, models.PlayoffSeed{
			Seed:         i + 1,
			TeamID:       row.TeamID,
			Abbreviation: row.Abbreviation,
			Wins:         row.Wins,
			Losses:       row.Losses,
			PointsFor:    row.PointsFor,
		})
	}
	return seeds, nil
}

// regularSeasonComplete проверяет, что все игры регулярного сезона завершены.
func (s *playoffService) regularSeasonComplete(ctx context.Context, seasonID int) (bool, error) {
	weeks, err := s.seasonRepo.ListWeeks(ctx, seasonID)
	if err != nil {
		return false, err
	}
	for _, week := range weeks {
		if week.IsPlayoffs {
			continue
		}
		games, err := s.gameRepo.ListByWeek(ctx, week.ID)
		if err != nil {
			return false, err
		}
		for _, game := range games {
			if game.Status != models.GameStatusCompleted {
				return false, nil
			}
		}
	}
	return true, nil
}

// createRound материализует пары раунда: неделя плей-офф, игры (хозяин —
// верхний посев) и матчи сетки. Матчи с bye сразу получают статус bye.
func (s *playoffService) createRound(
	ctx context.Context,
	tx *sql.Tx,
	seasonID int,
	round models.PlayoffRound,
	matchups []brackets.Matchup,
	teamBySeed map[int]int,
) ([]*models.BracketMatch, error) {
	maxWeek, err := s.seasonRepo.MaxWeekNumber(ctx, tx, seasonID)
	if err != nil {
		return nil, err
	}
	week := &models.Week{SeasonID: seasonID, Number: maxWeek + 1, IsPlayoffs: true}
	if err := s.seasonRepo.CreateWeek(ctx, tx, week); err != nil {
		return nil, err
	}

	created := make([]*models.BracketMatch, 0, len(matchups))
	for _, matchup := range matchups {
		match := &models.BracketMatch{
			SeasonID:         seasonID,
			Round:            round,
			HigherSeed:       matchup.Higher.Seed,
			HigherSeedTeamID: teamBySeed[matchup.Higher.Seed],
			Status:           models.BracketMatchPending,
		}
		if matchup.Lower == nil {
			match.Status = models.BracketMatchBye
		} else {
			lowerSeed := matchup.Lower.Seed
			lowerTeam := teamBySeed[lowerSeed]
			match.LowerSeed = &lowerSeed
			match.LowerSeedTeamID = &lowerTeam

			game := &models.Game{
				WeekID:     week.ID,
				HomeTeamID: match.HigherSeedTeamID,
				AwayTeamID: lowerTeam,
				Status:     models.GameStatusScheduled,
			}
			if err := s.gameRepo.Create(ctx, tx, game); err != nil {
				return nil, err
			}
			match.GameID = &game.ID
		}
		if err := s.playoffRepo.CreateBracketMatch(ctx, tx, match); err != nil {
			return nil, err
		}
		created = append(created, match)
	}
	return created, nil
}

// Start сеет плей-офф: K лучших команд таблицы, пары 1—K, 2—(K−1) и так далее,
// верхние посевы получают bye до степени двойки. Требует полностью сыгранной
// регулярки; повторный запуск — конфликт.
func (s *playoffService) Start(ctx context.Context, leagueID, year int) (*PlayoffBracket, error) {
	season, err := s.seasonRepo.GetByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return nil, mapRepoError(err)
	}

	done, err := s.regularSeasonComplete(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("%w: regular season is not complete", ErrPreconditionFailed)
	}

	seedList, err := s.Seeds(ctx, leagueID, year)
	if err != nil {
		return nil, err
	}
	seeds := make([]brackets.Seed, 0, len(seedList))
	teamBySeed := make(map[int]int, len(seedList))
	for _, seed := range seedList {
		seeds = append(seeds, brackets.Seed{Seed: seed.Seed, TeamID: seed.TeamID})
		teamBySeed[seed.Seed] = seed.TeamID
	}

	matchups, err := brackets.PairRound(seeds)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPreconditionFailed, err)
	}
	round := brackets.RoundLabel(len(seeds))

	bracket := &PlayoffBracket{}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		state := &models.PlayoffState{
			SeasonID:     season.ID,
			CurrentRound: round,
			FieldSize:    len(seeds),
		}
		if err := s.playoffRepo.CreateState(ctx, tx, state); err != nil {
			if err == repositories.ErrPlayoffStateConflict {
				return fmt.Errorf("%w: %s", ErrConflict, err)
			}
			return err
		}
		matches, err := s.createRound(ctx, tx, season.ID, round, matchups, teamBySeed)
		if err != nil {
			return err
		}
		bracket.State = state
		bracket.Matches = matches
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.PlayoffsAdvanced,
		LeagueID:   leagueID,
		EntityType: "season",
		EntityID:   season.ID,
		Details:    map[string]any{"round": string(round), "field_size": len(seeds)},
		OccurredAt: time.Now(),
	})
	return bracket, nil
}

func (s *playoffService) Bracket(ctx context.Context, leagueID, year int) (*PlayoffBracket, error) {
	season, err := s.seasonRepo.GetByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return nil, mapRepoError(err)
	}
	state, err := s.playoffRepo.GetStateBySeason(ctx, season.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	matches, err := s.playoffRepo.ListBracketMatches(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	return &PlayoffBracket{State: state, Matches: matches}, nil
}

// matchWinner определяет победителя матча сетки по связанной игре.
// Возвращает посев и команду победителя.
func (s *playoffService) matchWinner(ctx context.Context, tx *sql.Tx, match *models.BracketMatch) (brackets.Seed, error) {
	if match.Status == models.BracketMatchBye {
		return brackets.Seed{Seed: match.HigherSeed, TeamID: match.HigherSeedTeamID}, nil
	}
	if match.GameID == nil {
		return brackets.Seed{}, fmt.Errorf("%w: bracket match %d has no linked game", ErrPreconditionFailed, match.ID)
	}
	game, err := s.gameRepo.GetByIDForUpdate(ctx, tx, *match.GameID)
	if err != nil {
		return brackets.Seed{}, mapRepoError(err)
	}
	if game.Status != models.GameStatusCompleted {
		return brackets.Seed{}, fmt.Errorf("%w: game %d of the current round is not completed", ErrPreconditionFailed, game.ID)
	}
	if game.WinnerID == nil {
		return brackets.Seed{}, fmt.Errorf("%w: playoff game %d ended in a tie and must be replayed", ErrPreconditionFailed, game.ID)
	}
	if *game.WinnerID == match.HigherSeedTeamID {
		return brackets.Seed{Seed: match.HigherSeed, TeamID: match.HigherSeedTeamID}, nil
	}
	if match.LowerSeed == nil || match.LowerSeedTeamID == nil {
		return brackets.Seed{}, fmt.Errorf("winner %d does not belong to bracket match %d", *game.WinnerID, match.ID)
	}
	return brackets.Seed{Seed: *match.LowerSeed, TeamID: *match.LowerSeedTeamID}, nil
}

// Advance закрывает текущий раунд и строит следующий. Победители пересеваются
// по исходным номерам посева; оставшись в одиночестве, команда становится
// чемпионом. Конкурентные вызовы сериализуются блокировкой строки состояния.
func (s *playoffService) Advance(ctx context.Context, leagueID, year int) (*PlayoffBracket, error) {
	season, err := s.seasonRepo.GetByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return nil, mapRepoError(err)
	}

	bracket := &PlayoffBracket{}
	var advancedTo models.PlayoffRound
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		state, err := s.playoffRepo.GetStateBySeasonForUpdate(ctx, tx, season.ID)
		if err != nil {
			return mapRepoError(err)
		}
		if state.CurrentRound == models.RoundComplete {
			return fmt.Errorf("%w: playoffs are already complete", ErrPreconditionFailed)
		}

		matches, err := s.playoffRepo.ListBracketMatchesByRound(ctx, tx, season.ID, state.CurrentRound)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: current round has no bracket matches", ErrPreconditionFailed)
		}

		winners := make([]brackets.Seed, 0, len(matches))
		for _, match := range matches {
			winner, err := s.matchWinner(ctx, tx, match)
			if err != nil {
				return err
			}
			winners = append(winners, winner)
			if match.Status == models.BracketMatchPending {
				if err := s.playoffRepo.UpdateBracketMatchStatus(ctx, tx, match.ID, models.BracketMatchCompleted); err != nil {
					return err
				}
			}
		}

		if len(winners) == 1 {
			champion := winners[0].TeamID
			state.CurrentRound = models.RoundComplete
			state.ChampionID = &champion
			if err := s.playoffRepo.UpdateState(ctx, tx, state); err != nil {
				return err
			}
			advancedTo = models.RoundComplete
			bracket.State = state
			return nil
		}

		matchups, err := brackets.PairRound(winners)
		if err != nil {
			return err
		}
		nextRound := brackets.RoundLabel(len(winners))

		teamBySeed := make(map[int]int, len(winners))
		for _, w := range winners {
			teamBySeed[w.Seed] = w.TeamID
		}
		if _, err := s.createRound(ctx, tx, season.ID, nextRound, matchups, teamBySeed); err != nil {
			return err
		}

		state.CurrentRound = nextRound
		if err := s.playoffRepo.UpdateState(ctx, tx, state); err != nil {
			return err
		}
		advancedTo = nextRound
		bracket.State = state
		return nil
	})
	if err != nil {
		return nil, err
	}

	bracket.Matches, err = s.playoffRepo.ListBracketMatches(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.PlayoffsAdvanced,
		LeagueID:   leagueID,
		EntityType: "season",
		EntityID:   season.ID,
		Details:    map[string]any{"round": string(advancedTo)},
		OccurredAt: time.Now(),
	})
	return bracket, nil
}
