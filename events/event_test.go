package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSinkFuncAdapter(t *testing.T) {
	var got Event
	sink := SinkFunc(func(e Event) { got = e })

	sent := Event{
		Type:       GameCompleted,
		LeagueID:   4,
		EntityType: "game",
		EntityID:   17,
		Details:    map[string]any{"home_score": 24},
		OccurredAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	sink.Publish(sent)

	assert.Equal(t, sent, got)
}

func TestLeagueRoom(t *testing.T) {
	assert.Equal(t, "league_1", LeagueRoom(1))
	assert.Equal(t, "league_42", LeagueRoom(42))
}
