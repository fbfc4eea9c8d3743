package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLeagueService возвращает заранее заданные значения; хватает для проверки
// декодирования, маршрутизации и маппинга ошибок.
type stubLeagueService struct {
	league *models.League
	err    error
}

func (s *stubLeagueService) Create(_ context.Context, _ services.CreateLeagueInput) (*models.League, error) {
	return s.league, s.err
}

func (s *stubLeagueService) GetByID(_ context.Context, _ int) (*models.League, error) {
	return s.league, s.err
}

func (s *stubLeagueService) List(_ context.Context) ([]*models.League, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.League{s.league}, nil
}

func (s *stubLeagueService) GetStructure(_ context.Context, _ int) (*models.League, error) {
	return s.league, s.err
}

func (s *stubLeagueService) Update(_ context.Context, _ int, _ services.UpdateLeagueInput) (*models.League, error) {
	return s.league, s.err
}

func (s *stubLeagueService) Delete(_ context.Context, _ int) error { return s.err }

func (s *stubLeagueService) RenameConference(_ context.Context, _, _ int, _ string) error {
	return s.err
}

func (s *stubLeagueService) RenameDivision(_ context.Context, _, _ int, _ string) error {
	return s.err
}

func newLeagueRouter(svc services.LeagueService) *chi.Mux {
	h := NewLeagueHandler(svc)
	router := chi.NewRouter()
	router.Post("/leagues", h.Create)
	router.Get("/leagues/{leagueID}", h.GetByID)
	router.Patch("/leagues/{leagueID}", h.Update)
	return router
}

func TestLeagueHandlerCreate(t *testing.T) {
	svc := &stubLeagueService{league: &models.League{ID: 1, Name: "Test League"}}
	router := newLeagueRouter(svc)

	body := `{"name": "Test League", "conference_count": 2, "divisions_per_conference": 2, "teams_per_division": 4, "salary_cap": 200000000, "roster_size_limit": 53, "free_agency_mode": "auction"}`
	req := httptest.NewRequest(http.MethodPost, "/leagues", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		League models.League `json:"league"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Test League", resp.League.Name)
}

func TestLeagueHandlerRejectsUnknownFields(t *testing.T) {
	router := newLeagueRouter(&stubLeagueService{league: &models.League{}})

	req := httptest.NewRequest(http.MethodPost, "/leagues", strings.NewReader(`{"nmae": "typo"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeagueHandlerRejectsInvalidID(t *testing.T) {
	router := newLeagueRouter(&stubLeagueService{league: &models.League{}})

	for _, id := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/leagues/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
	}
}

func TestLeagueHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("%w: league 5", services.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: bad cap", services.ErrValidationFailed), http.StatusUnprocessableEntity},
		{"struct validation error", &services.CapExceededError{TeamID: 1}, http.StatusUnprocessableEntity},
		{"precondition", fmt.Errorf("%w: open bids", services.ErrPreconditionFailed), http.StatusConflict},
		{"conflict", fmt.Errorf("%w: duplicate", services.ErrConflict), http.StatusConflict},
		{"forbidden", services.ErrForbiddenOperation, http.StatusForbidden},
		{"unclassified", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newLeagueRouter(&stubLeagueService{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/leagues/5", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestLeagueHandlerUpdatePartialPatch(t *testing.T) {
	svc := &stubLeagueService{league: &models.League{ID: 3, Name: "Renamed"}}
	router := newLeagueRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/leagues/3", strings.NewReader(`{"name": "Renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
