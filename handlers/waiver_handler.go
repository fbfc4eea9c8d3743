package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type WaiverHandler struct {
	waiverService services.WaiverService
}

func NewWaiverHandler(waiverService services.WaiverService) *WaiverHandler {
	return &WaiverHandler{waiverService: waiverService}
}

func (h *WaiverHandler) Release(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PlayerID int `json:"player_id"`
		TeamID   int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	waiver, err := h.waiverService.Release(r.Context(), leagueID, input.PlayerID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"waiver": waiver}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *WaiverHandler) Claim(w http.ResponseWriter, r *http.Request) {
	waiverID, err := getIDFromURL(r, "waiverID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	waiver, err := h.waiverService.Claim(r.Context(), waiverID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"waiver": waiver}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *WaiverHandler) ListByLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	waivers, err := h.waiverService.ListByLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"waivers": waivers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
