package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type PlayoffHandler struct {
	playoffService services.PlayoffService
}

func NewPlayoffHandler(playoffService services.PlayoffService) *PlayoffHandler {
	return &PlayoffHandler{playoffService: playoffService}
}

func (h *PlayoffHandler) Seeds(w http.ResponseWriter, r *http.Request) {
	leagueID, year, ok := h.leagueYear(w, r)
	if !ok {
		return
	}

	seeds, err := h.playoffService.Seeds(r.Context(), leagueID, year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"seeds": seeds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) Start(w http.ResponseWriter, r *http.Request) {
	leagueID, year, ok := h.leagueYear(w, r)
	if !ok {
		return
	}

	bracket, err := h.playoffService.Start(r.Context(), leagueID, year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) Bracket(w http.ResponseWriter, r *http.Request) {
	leagueID, year, ok := h.leagueYear(w, r)
	if !ok {
		return
	}

	bracket, err := h.playoffService.Bracket(r.Context(), leagueID, year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Advance закрывает текущий раунд: все его матчи должны быть завершены.
func (h *PlayoffHandler) Advance(w http.ResponseWriter, r *http.Request) {
	leagueID, year, ok := h.leagueYear(w, r)
	if !ok {
		return
	}

	bracket, err := h.playoffService.Advance(r.Context(), leagueID, year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) leagueYear(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return leagueID, year, true
}
