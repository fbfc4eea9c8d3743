package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type TradeItemInput struct {
	Kind       models.TradeItemKind `json:"kind"`
	PlayerID   *int                 `json:"player_id"`
	PickID     *int                 `json:"pick_id"`
	CashAmount *int64               `json:"cash_amount"`
	FromTeamID int                  `json:"from_team_id"`
	ToTeamID   int                  `json:"to_team_id"`
}

type CreateTradeInput struct {
	FromTeamID int              `json:"from_team_id"`
	ToTeamID   int              `json:"to_team_id"`
	CreatedBy  *int             `json:"created_by"`
	Items      []TradeItemInput `json:"items"`
}

type TradeService interface {
	Create(ctx context.Context, leagueID int, input CreateTradeInput) (*models.Trade, error)
	GetByID(ctx context.Context, tradeID int) (*models.Trade, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Trade, error)
	Accept(ctx context.Context, tradeID int) (*models.Trade, error)
	Reverse(ctx context.Context, tradeID int) (*models.Trade, error)
	Reject(ctx context.Context, tradeID int) (*models.Trade, error)
}

type tradeService struct {
	db           *sql.DB
	leagueRepo   repositories.LeagueRepository
	teamRepo     repositories.TeamRepository
	playerRepo   repositories.PlayerRepository
	contractRepo repositories.ContractRepository
	draftRepo    repositories.DraftRepository
	tradeRepo    repositories.TradeRepository
	sink         events.Sink
}

func NewTradeService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	contractRepo repositories.ContractRepository,
	draftRepo repositories.DraftRepository,
	tradeRepo repositories.TradeRepository,
	sink events.Sink,
) TradeService {
	return &tradeService{
		db:           db,
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		contractRepo: contractRepo,
		draftRepo:    draftRepo,
		tradeRepo:    tradeRepo,
		sink:         sink,
	}
}

// validateItemShape проверяет размеченное объединение: ровно одно поле под
// свой kind, направление — между сторонами трейда.
func validateItemShape(item TradeItemInput, fromTeamID, toTeamID int) error {
	switch item.Kind {
	case models.TradeItemPlayer:
		if item.PlayerID == nil || item.PickID != nil || item.CashAmount != nil {
			return fmt.Errorf("%w: player item must set exactly player_id", ErrValidationFailed)
		}
	case models.TradeItemPick:
		if item.PickID == nil || item.PlayerID != nil || item.CashAmount != nil {
			return fmt.Errorf("%w: pick item must set exactly pick_id", ErrValidationFailed)
		}
	case models.TradeItemCash:
		if item.CashAmount == nil || item.PlayerID != nil || item.PickID != nil {
			return fmt.Errorf("%w: cash item must set exactly cash_amount", ErrValidationFailed)
		}
		if *item.CashAmount <= 0 {
			return fmt.Errorf("%w: cash_amount must be positive", ErrValidationFailed)
		}
	default:
		return fmt.Errorf("%w: unknown trade item kind %q", ErrValidationFailed, item.Kind)
	}

	if item.FromTeamID == item.ToTeamID {
		return fmt.Errorf("%w: trade item cannot stay with the same team", ErrValidationFailed)
	}
	validSide := func(id int) bool { return id == fromTeamID || id == toTeamID }
	if !validSide(item.FromTeamID) || !validSide(item.ToTeamID) {
		return fmt.Errorf("%w: trade item teams must be the two trade parties", ErrValidationFailed)
	}
	return nil
}

func (s *tradeService) Create(ctx context.Context, leagueID int, input CreateTradeInput) (*models.Trade, error) {
	if input.FromTeamID == input.ToTeamID {
		return nil, fmt.Errorf("%w: a team cannot trade with itself", ErrValidationFailed)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: trade must include at least one item", ErrValidationFailed)
	}

	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	for _, teamID := range []int{input.FromTeamID, input.ToTeamID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		if team.LeagueID != leagueID {
			return nil, fmt.Errorf("%w: team %d does not belong to league %d", ErrValidationFailed, teamID, leagueID)
		}
	}

	trade := &models.Trade{
		LeagueID:   leagueID,
		FromTeamID: input.FromTeamID,
		ToTeamID:   input.ToTeamID,
		CreatedBy:  input.CreatedBy,
		Status:     models.TradeStatusProposed,
	}
	for _, item := range input.Items {
		if err := validateItemShape(item, input.FromTeamID, input.ToTeamID); err != nil {
			return nil, err
		}
		trade.Items = append(trade.Items, models.TradeItem{
			Kind:       item.Kind,
			PlayerID:   item.PlayerID,
			PickID:     item.PickID,
			CashAmount: item.CashAmount,
			FromTeamID: item.FromTeamID,
			ToTeamID:   item.ToTeamID,
		})
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		// Происхождение активов проверяется и здесь, и повторно при принятии.
		if err := s.checkProvenance(ctx, tx, trade, false); err != nil {
			return err
		}
		return s.tradeRepo.Create(ctx, tx, trade)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.TradeCreated,
		LeagueID:   leagueID,
		EntityType: "trade",
		EntityID:   trade.ID,
		Details:    map[string]any{"from_team_id": trade.FromTeamID, "to_team_id": trade.ToTeamID, "items": len(trade.Items)},
		OccurredAt: time.Now(),
	})
	return trade, nil
}

// checkProvenance убеждается, что каждый актив принадлежит отдающей стороне.
// При reversed=true проверяется обратное направление (для отката).
func (s *tradeService) checkProvenance(ctx context.Context, tx *sql.Tx, trade *models.Trade, reversed bool) error {
	cashOut := make(map[int]int64)

	for _, item := range trade.Items {
		owner := item.FromTeamID
		if reversed {
			owner = item.ToTeamID
		}
		switch item.Kind {
		case models.TradeItemPlayer:
			player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, *item.PlayerID)
			if err != nil {
				return mapRepoError(err)
			}
			if player.TeamID == nil || *player.TeamID != owner {
				return fmt.Errorf("%w: player %d is not on team %d", ErrPreconditionFailed, *item.PlayerID, owner)
			}
		case models.TradeItemPick:
			pick, err := s.draftRepo.GetPickByIDForUpdate(ctx, tx, *item.PickID)
			if err != nil {
				return mapRepoError(err)
			}
			if pick.TeamID != owner {
				return fmt.Errorf("%w: draft pick %d is not owned by team %d", ErrPreconditionFailed, *item.PickID, owner)
			}
			if pick.IsSelected {
				return fmt.Errorf("%w: draft pick %d has already been used", ErrPreconditionFailed, *item.PickID)
			}
		case models.TradeItemCash:
			cashOut[owner] += *item.CashAmount
		}
	}

	for teamID, amount := range cashOut {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return mapRepoError(err)
		}
		if team.CashBalance < amount {
			return fmt.Errorf("%w: team %d cash balance %d is below the traded %d", ErrPreconditionFailed, teamID, team.CashBalance, amount)
		}
	}
	return nil
}

// checkRoomAfterTrade проверяет лимит состава и потолок обеих сторон с учётом
// чистых перемещений игроков и их контрактов.
func (s *tradeService) checkRoomAfterTrade(ctx context.Context, tx *sql.Tx, league *models.League, trade *models.Trade, reversed bool) error {
	playerDelta := make(map[int]int)
	capDelta := make(map[int]int64)

	for _, item := range trade.Items {
		if item.Kind != models.TradeItemPlayer {
			continue
		}
		from, to := item.FromTeamID, item.ToTeamID
		if reversed {
			from, to = to, from
		}
		playerDelta[from]--
		playerDelta[to]++

		contract, err := s.contractRepo.GetByPlayerID(ctx, tx, *item.PlayerID)
		if err != nil {
			if errors.Is(err, repositories.ErrContractNotFound) {
				continue
			}
			return err
		}
		capDelta[from] -= contract.CapHit()
		capDelta[to] += contract.CapHit()
	}

	for teamID, delta := range playerDelta {
		if delta <= 0 {
			continue
		}
		if err := checkRosterRoom(ctx, s.playerRepo, tx, league, teamID, delta); err != nil {
			return err
		}
	}
	for teamID, delta := range capDelta {
		if delta <= 0 {
			continue
		}
		if err := checkCapRoom(ctx, s.contractRepo, tx, league, teamID, delta); err != nil {
			return err
		}
	}
	return nil
}

// applyItems переносит активы. При reversed=true применяется точная инверсия.
func (s *tradeService) applyItems(ctx context.Context, tx *sql.Tx, trade *models.Trade, reversed bool) error {
	for _, item := range trade.Items {
		from, to := item.FromTeamID, item.ToTeamID
		if reversed {
			from, to = to, from
		}
		switch item.Kind {
		case models.TradeItemPlayer:
			if err := s.playerRepo.UpdateTeam(ctx, tx, *item.PlayerID, &to); err != nil {
				return err
			}
			contract, err := s.contractRepo.GetByPlayerID(ctx, tx, *item.PlayerID)
			if err != nil {
				if errors.Is(err, repositories.ErrContractNotFound) {
					continue
				}
				return err
			}
			if err := s.contractRepo.UpdateTeam(ctx, tx, contract.ID, to); err != nil {
				return err
			}
		case models.TradeItemPick:
			if err := s.draftRepo.UpdatePickTeam(ctx, tx, *item.PickID, to); err != nil {
				return err
			}
		case models.TradeItemCash:
			if err := s.teamRepo.AdjustCashBalance(ctx, tx, from, -*item.CashAmount); err != nil {
				return err
			}
			if err := s.teamRepo.AdjustCashBalance(ctx, tx, to, *item.CashAmount); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *tradeService) GetByID(ctx context.Context, tradeID int) (*models.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return trade, nil
}

func (s *tradeService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Trade, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.tradeRepo.ListByLeague(ctx, leagueID)
}

// Accept атомарно исполняет трейд: происхождение, лимиты и потолок
// перепроверяются под блокировками, активы переносятся, либо всё, либо ничего.
func (s *tradeService) Accept(ctx context.Context, tradeID int) (*models.Trade, error) {
	var trade *models.Trade
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		trade, err = s.tradeRepo.GetByIDForUpdate(ctx, tx, tradeID)
		if err != nil {
			return mapRepoError(err)
		}
		if trade.Status != models.TradeStatusProposed {
			return fmt.Errorf("%w: trade %d is %s, only proposed trades can be accepted", ErrPreconditionFailed, tradeID, trade.Status)
		}

		league, err := s.leagueRepo.GetByID(ctx, trade.LeagueID)
		if err != nil {
			return mapRepoError(err)
		}
		if err := s.checkProvenance(ctx, tx, trade, false); err != nil {
			return err
		}
		if err := s.checkRoomAfterTrade(ctx, tx, league, trade, false); err != nil {
			return err
		}
		if err := s.applyItems(ctx, tx, trade, false); err != nil {
			return err
		}
		trade.Status = models.TradeStatusAccepted
		return s.tradeRepo.UpdateStatus(ctx, tx, tradeID, models.TradeStatusAccepted)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.TradeAccepted,
		LeagueID:   trade.LeagueID,
		EntityType: "trade",
		EntityID:   trade.ID,
		OccurredAt: time.Now(),
	})
	return trade, nil
}

// Reverse откатывает принятый трейд точной инверсией. Если какой-то актив
// успел уехать дальше, откат невозможен.
func (s *tradeService) Reverse(ctx context.Context, tradeID int) (*models.Trade, error) {
	var trade *models.Trade
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		trade, err = s.tradeRepo.GetByIDForUpdate(ctx, tx, tradeID)
		if err != nil {
			return mapRepoError(err)
		}
		if trade.Status != models.TradeStatusAccepted {
			return fmt.Errorf("%w: trade %d is %s, only accepted trades can be reversed", ErrPreconditionFailed, tradeID, trade.Status)
		}

		league, err := s.leagueRepo.GetByID(ctx, trade.LeagueID)
		if err != nil {
			return mapRepoError(err)
		}
		if err := s.checkProvenance(ctx, tx, trade, true); err != nil {
			return err
		}
		if err := s.checkRoomAfterTrade(ctx, tx, league, trade, true); err != nil {
			return err
		}
		if err := s.applyItems(ctx, tx, trade, true); err != nil {
			return err
		}
		trade.Status = models.TradeStatusReversed
		return s.tradeRepo.UpdateStatus(ctx, tx, tradeID, models.TradeStatusReversed)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(events.Event{
		Type:       events.TradeReversed,
		LeagueID:   trade.LeagueID,
		EntityType: "trade",
		EntityID:   trade.ID,
		OccurredAt: time.Now(),
	})
	return trade, nil
}

func (s *tradeService) Reject(ctx context.Context, tradeID int) (*models.Trade, error) {
	var trade *models.Trade
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		trade, err = s.tradeRepo.GetByIDForUpdate(ctx, tx, tradeID)
		if err != nil {
			return mapRepoError(err)
		}
		if trade.Status != models.TradeStatusProposed {
			return fmt.Errorf("%w: trade %d is %s, only proposed trades can be rejected", ErrPreconditionFailed, tradeID, trade.Status)
		}
		trade.Status = models.TradeStatusRejected
		return s.tradeRepo.UpdateStatus(ctx, tx, tradeID, models.TradeStatusRejected)
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}
