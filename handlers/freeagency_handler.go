package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type FreeAgencyHandler struct {
	freeAgencyService services.FreeAgencyService
}

func NewFreeAgencyHandler(freeAgencyService services.FreeAgencyService) *FreeAgencyHandler {
	return &FreeAgencyHandler{freeAgencyService: freeAgencyService}
}

func (h *FreeAgencyHandler) ListFreeAgents(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.freeAgencyService.ListFreeAgents(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FreeAgencyHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.BidStatus
	if s := r.URL.Query().Get("status"); s != "" {
		bidStatus := models.BidStatus(s)
		status = &bidStatus
	}

	bids, err := h.freeAgencyService.ListBids(r.Context(), leagueID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bids": bids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FreeAgencyHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlaceBidInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bid, err := h.freeAgencyService.PlaceBid(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bid": bid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Resolve запускает резолюцию вручную, вне фонового цикла.
func (h *FreeAgencyHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.freeAgencyService.Resolve(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
