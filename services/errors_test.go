package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessErrorsMatchValidationClass(t *testing.T) {
	capErr := &CapExceededError{TeamID: 7, CapUsage: 210_000_000, SalaryCap: 200_000_000}
	assert.ErrorIs(t, capErr, ErrValidationFailed)
	assert.Contains(t, capErr.Error(), "team 7")

	rosterErr := &RosterLimitError{TeamID: 7, Size: 54, Limit: 53}
	assert.ErrorIs(t, rosterErr, ErrValidationFailed)
	assert.Contains(t, rosterErr.Error(), "54")

	// Но не другие классы таксономии.
	assert.NotErrorIs(t, capErr, ErrPreconditionFailed)
	assert.NotErrorIs(t, rosterErr, ErrConflict)
}

func TestBusinessErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("adding player: %w", &CapExceededError{TeamID: 1})
	require.ErrorIs(t, wrapped, ErrValidationFailed)

	var capErr *CapExceededError
	require.ErrorAs(t, wrapped, &capErr)
	assert.Equal(t, 1, capErr.TeamID)
}

func TestMapRepoError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNot bool
	}{
		{"league not found", repositories.ErrLeagueNotFound, true},
		{"player not found", repositories.ErrPlayerNotFound, true},
		{"waiver not found", repositories.ErrWaiverNotFound, true},
		{"wrapped season not found", fmt.Errorf("loading: %w", repositories.ErrSeasonNotFound), true},
		{"unrelated error", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRepoError(tt.err)
			if tt.wantNot {
				assert.ErrorIs(t, got, ErrNotFound)
			} else {
				assert.NotErrorIs(t, got, ErrNotFound)
				assert.Equal(t, tt.err, got)
			}
		})
	}

	assert.NoError(t, mapRepoError(nil))
}
