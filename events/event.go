// Package events — доменные события лиги. Ядро только публикует события;
// доставка уведомлений и отображение журнала аудита — забота внешних систем,
// подписанных на Sink.
package events

import "time"

type EventType string

const (
	LeagueCreated     EventType = "league.create"
	LeagueUpdated     EventType = "league.update"
	LeagueDeleted     EventType = "league.delete"
	TeamCreated       EventType = "team.create"
	TeamDeleted       EventType = "team.delete"
	RosterAdded       EventType = "roster.add"
	RosterReleased    EventType = "roster.release"
	ScheduleGenerated EventType = "league.schedule.generate"
	GameCompleted     EventType = "game.complete"
	GameReopened      EventType = "game.reopen"
	TradeCreated      EventType = "trade.create"
	TradeAccepted     EventType = "trade.accept"
	TradeReversed     EventType = "trade.reverse"
	WaiverReleased    EventType = "waiver.release"
	WaiverClaimed     EventType = "waiver.claim"
	BidPlaced         EventType = "fa.bid"
	BidAwarded        EventType = "fa.award"
	ContractUpdated   EventType = "contract.update"
	DraftCreated      EventType = "draft.create"
	DraftPickMade     EventType = "draft.pick"
	InjuryCreated     EventType = "injury.create"
	InjuryResolved    EventType = "injury.resolve"
	PlayoffsAdvanced  EventType = "playoffs.advance"
)

type Event struct {
	Type       EventType      `json:"type"`
	LeagueID   int            `json:"league_id"`
	EntityType string         `json:"entity_type"`
	EntityID   int            `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Sink принимает доменные события. Публикация не должна блокировать
// бизнес-операцию и не участвует в её транзакции.
type Sink interface {
	Publish(event Event)
}

// SinkFunc адаптирует функцию к интерфейсу Sink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(event Event) { f(event) }
