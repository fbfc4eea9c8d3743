package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// Стоимость контракта новичка по раунду выбора.
const (
	rookieBaseSalary    = 6_000_000
	rookieRoundDiscount = 1_200_000
	rookieMinSalary     = 840_000
	rookieContractYears = 4
)

func rookieSalary(round int) int64 {
	salary := int64(rookieBaseSalary - rookieRoundDiscount*(round-1))
	if salary < rookieMinSalary {
		return rookieMinSalary
	}
	return salary
}

type CreateDraftInput struct {
	Rounds      int                     `json:"rounds"`
	OrderPolicy models.DraftOrderPolicy `json:"order_policy"`
}

type DraftService interface {
	Create(ctx context.Context, leagueID int, input CreateDraftInput) (*models.Draft, error)
	GetByID(ctx context.Context, draftID int) (*models.Draft, error)
	SelectPick(ctx context.Context, pickID, playerID int) (*models.DraftPick, error)
	GenerateRookiePool(ctx context.Context, leagueID, count int) ([]*models.Player, error)
	ListRookiePool(ctx context.Context, leagueID int) ([]*models.Player, error)
}

type draftService struct {
	db           *sql.DB
	leagueRepo   repositories.LeagueRepository
	teamRepo     repositories.TeamRepository
	playerRepo   repositories.PlayerRepository
	contractRepo repositories.ContractRepository
	seasonRepo   repositories.SeasonRepository
	draftRepo    repositories.DraftRepository
	standingsSvc StandingsService
	sink         events.Sink
}

func NewDraftService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	contractRepo repositories.ContractRepository,
	seasonRepo repositories.SeasonRepository,
	draftRepo repositories.DraftRepository,
	standingsSvc StandingsService,
	sink events.Sink,
) DraftService {
	return &draftService{
		db:           db,
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		contractRepo: contractRepo,
		seasonRepo:   seasonRepo,
		draftRepo:    draftRepo,
		standingsSvc: standingsSvc,
		sink:         sink,
	}
}

// draftOrder — порядок первого раунда: худшая команда таблицы выбирает первой.
// Без сыгранного сезона порядок — по id команды.
func (s *draftService) draftOrder(ctx context.Context, leagueID int) ([]int, *int, error) {
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	order := make([]int, 0, len(teams))

	season, err := s.seasonRepo.GetLatestByLeague(ctx, leagueID)
	if err != nil {
		for _, t := range teams {
			order = append(order, t.ID)
		}
		return order, nil, nil
	}

	table, err := s.standingsSvc.GetByLeagueYear(ctx, leagueID, season.Year)
	if err != nil {
		return nil, nil, err
	}
	for i := len(table) - 1; i >= 0; i-- {
		order = append(order, table[i].TeamID)
	}
	return order, &season.ID, nil
}

// Create создаёт драфт новичков и все его пики. straight повторяет порядок в
// каждом раунде, snake разворачивает чётные раунды.
func (s *draftService) Create(ctx context.Context, leagueID int, input CreateDraftInput) (*models.Draft, error) {
	if input.Rounds < 1 {
		return nil, fmt.Errorf("%w: draft rounds must be at least 1", ErrValidationFailed)
	}
	if input.OrderPolicy != models.DraftOrderStraight && input.OrderPolicy != models.DraftOrderSnake {
		return nil, fmt.Errorf("%w: order_policy must be straight or snake", ErrValidationFailed)
	}
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}

	order, seasonID, err := s.draftOrder(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: league has no teams to draft", ErrPreconditionFailed)
	}

	draft := &models.Draft{
		LeagueID:    leagueID,
		SeasonID:    seasonID,
		DraftType:   models.DraftTypeRookie,
		OrderPolicy: input.OrderPolicy,
		Rounds:      input.Rounds,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.draftRepo.Create(ctx, tx, draft); err != nil {
			return err
		}

		picks := make([]*models.DraftPick, 0, input.Rounds*len(order))
		overall := 0
		for round := 1; round <= input.Rounds; round++ {
			roundOrder := order
			if input.OrderPolicy == models.DraftOrderSnake && round%2 == 0 {
				roundOrder = make([]int, len(order))
				for i, teamID := range order {
					roundOrder[len(order)-1-i] = teamID
				}
			}
			for _, teamID := range roundOrder {
				overall++
				picks = append(picks, &models.DraftPick{
					DraftID:        draft.ID,
					RoundNumber:    round,
					OverallNumber:  overall,
					TeamID:         teamID,
					OriginalTeamID: teamID,
				})
			}
		}
		if err := s.draftRepo.CreatePicks(ctx, tx, picks); err != nil {
			return err
		}
		for _, pick := range picks {
			draft.Picks = append(draft.Picks, *pick)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.DraftCreated,
		LeagueID:   leagueID,
		EntityType: "draft",
		EntityID:   draft.ID,
		Details:    map[string]any{"rounds": draft.Rounds, "picks": len(draft.Picks)},
		OccurredAt: time.Now(),
	})
	return draft, nil
}

func (s *draftService) GetByID(ctx context.Context, draftID int) (*models.Draft, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return draft, nil
}

// SelectPick выбирает игрока из пула новичков: игрок уходит владельцу пика с
// контрактом новичка, флаг пула снимается. Когда выбран последний пик, драфт
// закрывается.
func (s *draftService) SelectPick(ctx context.Context, pickID, playerID int) (*models.DraftPick, error) {
	var pick *models.DraftPick
	var leagueID int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		pick, err = s.draftRepo.GetPickByIDForUpdate(ctx, tx, pickID)
		if err != nil {
			return mapRepoError(err)
		}
		if pick.IsSelected {
			return fmt.Errorf("%w: pick %d has already been used", ErrPreconditionFailed, pickID)
		}

		draft, err := s.draftRepo.GetByID(ctx, pick.DraftID)
		if err != nil {
			return mapRepoError(err)
		}
		if draft.IsComplete {
			return fmt.Errorf("%w: draft %d is already complete", ErrPreconditionFailed, draft.ID)
		}
		leagueID = draft.LeagueID

		league, err := s.leagueRepo.GetByID(ctx, draft.LeagueID)
		if err != nil {
			return mapRepoError(err)
		}
		player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, playerID)
		if err != nil {
			return mapRepoError(err)
		}
		if player.LeagueID != draft.LeagueID || !player.IsRookiePool || player.TeamID != nil {
			return fmt.Errorf("%w: player %d is not in this league's rookie pool", ErrPreconditionFailed, playerID)
		}

		if err := checkRosterRoom(ctx, s.playerRepo, tx, league, pick.TeamID, 1); err != nil {
			return err
		}
		salary := rookieSalary(pick.RoundNumber)
		if err := checkCapRoom(ctx, s.contractRepo, tx, league, pick.TeamID, salary); err != nil {
			return err
		}

		if err := s.playerRepo.UpdateTeam(ctx, tx, playerID, &pick.TeamID); err != nil {
			return err
		}
		if err := s.playerRepo.ClearRookieFlag(ctx, tx, playerID); err != nil {
			return err
		}

		startYear := time.Now().Year()
		if draft.SeasonID != nil {
			if season, err := s.seasonRepo.GetByID(ctx, *draft.SeasonID); err == nil {
				startYear = season.Year
			}
		}
		contract := &models.Contract{
			PlayerID:  playerID,
			TeamID:    pick.TeamID,
			Salary:    salary,
			Years:     rookieContractYears,
			StartYear: startYear,
		}
		if err := s.contractRepo.Create(ctx, tx, contract); err != nil {
			return err
		}

		selectedAt := time.Now()
		if err := s.draftRepo.SelectPick(ctx, tx, pickID, playerID, selectedAt); err != nil {
			return err
		}
		pick.PlayerID = &playerID
		pick.IsSelected = true
		pick.SelectedAt = &selectedAt

		remaining, err := s.draftRepo.CountUnselected(ctx, tx, pick.DraftID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return s.draftRepo.MarkComplete(ctx, tx, pick.DraftID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.DraftPickMade,
		LeagueID:   leagueID,
		EntityType: "draft_pick",
		EntityID:   pick.ID,
		Details:    map[string]any{"player_id": playerID, "team_id": pick.TeamID, "overall": pick.OverallNumber},
		OccurredAt: time.Now(),
	})
	return pick, nil
}

var rookieFirstNames = []string{
	"Marcus", "Jalen", "DeShawn", "Tyler", "Caleb", "Jordan", "Malik", "Austin",
	"Devin", "Xavier", "Brock", "Isaiah", "Trent", "Cam", "Nico", "Drake",
}

var rookieLastNames = []string{
	"Johnson", "Williams", "Carter", "Mitchell", "Henderson", "Brooks", "Rivers",
	"Coleman", "Hayes", "Griffin", "Walker", "Sanders", "Porter", "Dalton", "Reed", "Nash",
}

// GenerateRookiePool детерминированно наполняет пул новичков: генератор
// сидируется id лиги и текущим размером пула, так что повторный вызов с тем же
// состоянием даёт тех же игроков.
func (s *draftService) GenerateRookiePool(ctx context.Context, leagueID, count int) ([]*models.Player, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: rookie pool size must be positive", ErrValidationFailed)
	}
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}

	existing, err := s.playerRepo.ListRookiePool(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(int64(leagueID)<<20 | int64(len(existing))))

	players := make([]*models.Player, 0, count)
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		for i := 0; i < count; i++ {
			position := models.Positions[rng.Intn(len(models.Positions))]
			overall := models.RatingMin + rng.Intn(45)
			potential := overall + rng.Intn(models.RatingMax-overall+1)
			player := &models.Player{
				LeagueID:        leagueID,
				FirstName:       rookieFirstNames[rng.Intn(len(rookieFirstNames))],
				LastName:        rookieLastNames[rng.Intn(len(rookieLastNames))],
				Position:        position,
				Age:             21 + rng.Intn(3),
				HeightInches:    68 + rng.Intn(12),
				WeightLbs:       180 + rng.Intn(140),
				OverallRating:   overall,
				PotentialRating: potential,
				InjuryStatus:    "healthy",
				IsRookiePool:    true,
			}
			if err := s.playerRepo.Create(ctx, tx, player); err != nil {
				return err
			}
			players = append(players, player)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (s *draftService) ListRookiePool(ctx context.Context, leagueID int) ([]*models.Player, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.playerRepo.ListRookiePool(ctx, leagueID)
}
