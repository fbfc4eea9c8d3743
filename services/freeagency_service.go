package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type PlaceBidInput struct {
	PlayerID    int   `json:"player_id"`
	TeamID      int   `json:"team_id"`
	Amount      int64 `json:"amount"`
	RoundNumber *int  `json:"round_number"`
}

// ResolutionReport — итог одного прохода резолюции по лиге.
type ResolutionReport struct {
	LeagueID int `json:"league_id"`
	Awarded  int `json:"awarded"`
	Lost     int `json:"lost"`
	Expired  int `json:"expired"`
}

type FreeAgencyService interface {
	ListFreeAgents(ctx context.Context, leagueID int) ([]*models.Player, error)
	ListBids(ctx context.Context, leagueID int, status *models.BidStatus) ([]*models.FreeAgencyBid, error)
	PlaceBid(ctx context.Context, leagueID int, input PlaceBidInput) (*models.FreeAgencyBid, error)
	Resolve(ctx context.Context, leagueID int) (*ResolutionReport, error)
	ResolveAll(ctx context.Context) error
}

type freeAgencyService struct {
	db            *sql.DB
	leagueRepo    repositories.LeagueRepository
	teamRepo      repositories.TeamRepository
	playerRepo    repositories.PlayerRepository
	contractRepo  repositories.ContractRepository
	bidRepo       repositories.BidRepository
	seasonRepo    repositories.SeasonRepository
	standingsSvc  StandingsService
	clock         clockwork.Clock
	auctionWindow time.Duration
	logger        *slog.Logger
	sink          events.Sink

	mu      sync.Mutex
	leagues map[int]*sync.Mutex
}

func NewFreeAgencyService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	contractRepo repositories.ContractRepository,
	bidRepo repositories.BidRepository,
	seasonRepo repositories.SeasonRepository,
	standingsSvc StandingsService,
	clock clockwork.Clock,
	auctionWindow time.Duration,
	logger *slog.Logger,
	sink events.Sink,
) FreeAgencyService {
	return &freeAgencyService{
		db:            db,
		leagueRepo:    leagueRepo,
		teamRepo:      teamRepo,
		playerRepo:    playerRepo,
		contractRepo:  contractRepo,
		bidRepo:       bidRepo,
		seasonRepo:    seasonRepo,
		standingsSvc:  standingsSvc,
		clock:         clock,
		auctionWindow: auctionWindow,
		logger:        logger,
		sink:          sink,
		leagues:       make(map[int]*sync.Mutex),
	}
}

// leagueMutex возвращает мьютекс лиги; резолюции одной лиги не пересекаются
// даже в одном процессе, между процессами сериализацию дают блокировки строк.
func (s *freeAgencyService) leagueMutex(leagueID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.leagues[leagueID]
	if !ok {
		m = &sync.Mutex{}
		s.leagues[leagueID] = m
	}
	return m
}

func (s *freeAgencyService) ListFreeAgents(ctx context.Context, leagueID int) ([]*models.Player, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.playerRepo.ListFreeAgents(ctx, leagueID)
}

func (s *freeAgencyService) ListBids(ctx context.Context, leagueID int, status *models.BidStatus) ([]*models.FreeAgencyBid, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.bidRepo.ListByLeague(ctx, leagueID, status)
}

// PlaceBid ставит заявку на свободного агента. В аукционном режиме заявка
// получает окно истечения, в раундовом — номер раунда. Потолок и лимит
// состава проверяются уже здесь, чтобы команда не копила заведомо
// невыполнимые заявки; при награждении проверка повторяется.
func (s *freeAgencyService) PlaceBid(ctx context.Context, leagueID int, input PlaceBidInput) (*models.FreeAgencyBid, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: bid amount must be positive", ErrValidationFailed)
	}

	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if team.LeagueID != leagueID {
		return nil, fmt.Errorf("%w: team %d does not belong to league %d", ErrValidationFailed, input.TeamID, leagueID)
	}
	player, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if player.LeagueID != leagueID {
		return nil, fmt.Errorf("%w: player %d does not belong to league %d", ErrValidationFailed, input.PlayerID, leagueID)
	}
	if !player.IsFreeAgent() {
		return nil, fmt.Errorf("%w: player %d is not a free agent", ErrPreconditionFailed, input.PlayerID)
	}

	if err := checkRosterRoom(ctx, s.playerRepo, nil, league, input.TeamID, 1); err != nil {
		return nil, err
	}
	if err := checkCapRoom(ctx, s.contractRepo, nil, league, input.TeamID, input.Amount); err != nil {
		return nil, err
	}

	bid := &models.FreeAgencyBid{
		LeagueID: leagueID,
		PlayerID: input.PlayerID,
		TeamID:   input.TeamID,
		Amount:   input.Amount,
		Status:   models.BidStatusOpen,
	}
	switch league.FreeAgencyMode {
	case models.FreeAgencyAuction:
		expires := s.clock.Now().Add(s.auctionWindow)
		bid.ExpiresAt = &expires
	case models.FreeAgencyRounds:
		if input.RoundNumber == nil || *input.RoundNumber < 1 {
			return nil, fmt.Errorf("%w: round_number is required in rounds mode", ErrValidationFailed)
		}
		bid.RoundNumber = input.RoundNumber
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		if errors.Is(err, repositories.ErrBidConflict) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.BidPlaced,
		LeagueID:   leagueID,
		EntityType: "bid",
		EntityID:   bid.ID,
		Details:    map[string]any{"player_id": bid.PlayerID, "team_id": bid.TeamID, "amount": bid.Amount},
		OccurredAt: s.clock.Now(),
	})
	return bid, nil
}

// contractStartYear — год старта контрактов, выданных свободным агентам:
// год последнего сезона лиги, без сезона — календарный год.
func (s *freeAgencyService) contractStartYear(ctx context.Context, leagueID int) int {
	season, err := s.seasonRepo.GetLatestByLeague(ctx, leagueID)
	if err != nil {
		return s.clock.Now().Year()
	}
	return season.Year
}

// award переводит игрока в команду-победителя с годовым контрактом на сумму
// ставки. Возвращает ErrPreconditionFailed, если команда больше не проходит
// по лимитам — тогда ставка истекает, а не выигрывает.
func (s *freeAgencyService) award(ctx context.Context, tx *sql.Tx, league *models.League, bid *models.FreeAgencyBid, startYear int) error {
	if err := checkRosterRoom(ctx, s.playerRepo, tx, league, bid.TeamID, 1); err != nil {
		return err
	}
	if err := checkCapRoom(ctx, s.contractRepo, tx, league, bid.TeamID, bid.Amount); err != nil {
		return err
	}
	if err := s.playerRepo.UpdateTeam(ctx, tx, bid.PlayerID, &bid.TeamID); err != nil {
		return err
	}
	contract := &models.Contract{
		PlayerID:  bid.PlayerID,
		TeamID:    bid.TeamID,
		Salary:    bid.Amount,
		Years:     1,
		StartYear: startYear,
	}
	return s.contractRepo.Create(ctx, tx, contract)
}

// resolveGroup награждает одного игрока: кандидаты перебираются в порядке
// приоритета, первый прошедший проверки выигрывает, не прошедшие истекают,
// остальные проигрывают. Игрок блокируется на время решения.
func (s *freeAgencyService) resolveGroup(ctx context.Context, tx *sql.Tx, league *models.League, candidates []*models.FreeAgencyBid, startYear int, report *ResolutionReport) error {
	now := s.clock.Now()

	player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, candidates[0].PlayerID)
	if err != nil {
		return mapRepoError(err)
	}
	if !player.IsFreeAgent() {
		// Игрок ушёл другим путём (трейд, драфт) — все заявки истекают.
		for _, bid := range candidates {
			if err := s.bidRepo.UpdateStatus(ctx, tx, bid.ID, models.BidStatusExpired, now); err != nil {
				return err
			}
			report.Expired++
		}
		return nil
	}

	awarded := false
	for _, bid := range candidates {
		if awarded {
			if err := s.bidRepo.UpdateStatus(ctx, tx, bid.ID, models.BidStatusLost, now); err != nil {
				return err
			}
			report.Lost++
			continue
		}
		err := s.award(ctx, tx, league, bid, startYear)
		if err != nil {
			if errors.Is(err, ErrValidationFailed) {
				if err := s.bidRepo.UpdateStatus(ctx, tx, bid.ID, models.BidStatusExpired, now); err != nil {
					return err
				}
				report.Expired++
				continue
			}
			return err
		}
		if err := s.bidRepo.UpdateStatus(ctx, tx, bid.ID, models.BidStatusWon, now); err != nil {
			return err
		}
		awarded = true
		report.Awarded++
		s.sink.Publish(events.Event{
			Type:       events.BidAwarded,
			LeagueID:   league.ID,
			EntityType: "bid",
			EntityID:   bid.ID,
			Details:    map[string]any{"player_id": bid.PlayerID, "team_id": bid.TeamID, "amount": bid.Amount},
			OccurredAt: now,
		})
	}
	return nil
}

// standingRank возвращает позицию команд в текущей таблице лиги: 0 — лучшая.
// Без сезона все команды равны, тай-брейк — меньший id.
func (s *freeAgencyService) standingRank(ctx context.Context, leagueID int) map[int]int {
	rank := make(map[int]int)
	season, err := s.seasonRepo.GetLatestByLeague(ctx, leagueID)
	if err != nil {
		return rank
	}
	table, err := s.standingsSvc.GetByLeagueYear(ctx, leagueID, season.Year)
	if err != nil {
		return rank
	}
	for i, row := range table {
		rank[row.TeamID] = i
	}
	return rank
}

// Resolve выполняет один проход резолюции лиги. Аукцион: обрабатываются
// только заявки с истёкшим окном, победитель — максимальная сумма, при
// равенстве — более ранняя заявка. Раунды: раунды по возрастанию, спорный
// игрок достаётся худшей по таблице команде. Уже решённые заявки не трогаются.
func (s *freeAgencyService) Resolve(ctx context.Context, leagueID int) (*ResolutionReport, error) {
	m := s.leagueMutex(leagueID)
	m.Lock()
	defer m.Unlock()

	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	report := &ResolutionReport{LeagueID: leagueID}
	startYear := s.contractStartYear(ctx, leagueID)

	var rank map[int]int
	if league.FreeAgencyMode == models.FreeAgencyRounds {
		rank = s.standingRank(ctx, leagueID)
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		var bids []*models.FreeAgencyBid
		var err error
		switch league.FreeAgencyMode {
		case models.FreeAgencyAuction:
			bids, err = s.bidRepo.ListOpenExpired(ctx, tx, leagueID, s.clock.Now())
		case models.FreeAgencyRounds:
			bids, err = s.bidRepo.ListOpenRounds(ctx, tx, leagueID)
		}
		if err != nil {
			return err
		}
		if len(bids) == 0 {
			return nil
		}

		groups := groupBids(bids, league.FreeAgencyMode, rank)
		for _, group := range groups {
			if err := s.resolveGroup(ctx, tx, league, group, startYear, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type bidGroupKey struct {
	round    int
	playerID int
}

// groupBids разбивает заявки по игрокам (и раундам для раундового режима) и
// сортирует кандидатов внутри группы в порядке приоритета награждения.
func groupBids(bids []*models.FreeAgencyBid, mode models.FreeAgencyMode, rank map[int]int) [][]*models.FreeAgencyBid {
	byKey := make(map[bidGroupKey][]*models.FreeAgencyBid)
	keys := make([]bidGroupKey, 0)
	for _, bid := range bids {
		key := bidGroupKey{playerID: bid.PlayerID}
		if bid.RoundNumber != nil {
			key.round = *bid.RoundNumber
		}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], bid)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].round != keys[j].round {
			return keys[i].round < keys[j].round
		}
		return keys[i].playerID < keys[j].playerID
	})

	groups := make([][]*models.FreeAgencyBid, 0, len(keys))
	for _, key := range keys {
		group := byKey[key]
		switch mode {
		case models.FreeAgencyAuction:
			sort.SliceStable(group, func(i, j int) bool {
				if group[i].Amount != group[j].Amount {
					return group[i].Amount > group[j].Amount
				}
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			})
		case models.FreeAgencyRounds:
			sort.SliceStable(group, func(i, j int) bool {
				ri, iOK := rank[group[i].TeamID]
				rj, jOK := rank[group[j].TeamID]
				if iOK && jOK && ri != rj {
					return ri > rj // худшая команда первой
				}
				return group[i].TeamID < group[j].TeamID
			})
		}
		groups = append(groups, group)
	}
	return groups
}

// ResolveAll — фоновая развёртка по всем лигам, лиги обрабатываются
// параллельно. Ошибка одной лиги не прерывает остальные: она логируется, а
// наружу уходит первая встреченная.
func (s *freeAgencyService) ResolveAll(ctx context.Context) error {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, league := range leagues {
		league := league
		g.Go(func() error {
			report, err := s.Resolve(gCtx, league.ID)
			if err != nil {
				s.logger.Error("free agency resolution failed",
					slog.Int("league_id", league.ID),
					slog.Any("error", err),
				)
				return err
			}
			if report.Awarded+report.Lost+report.Expired > 0 {
				s.logger.Info("free agency resolved",
					slog.Int("league_id", league.ID),
					slog.Int("awarded", report.Awarded),
					slog.Int("lost", report.Lost),
					slog.Int("expired", report.Expired),
				)
			}
			return nil
		})
	}
	return g.Wait()
}
