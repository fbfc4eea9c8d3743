package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type InjuryHandler struct {
	injuryService services.InjuryService
}

func NewInjuryHandler(injuryService services.InjuryService) *InjuryHandler {
	return &InjuryHandler{injuryService: injuryService}
}

func (h *InjuryHandler) Create(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateInjuryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	injury, err := h.injuryService.Create(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"injury": injury}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InjuryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	injuryID, err := getIDFromURL(r, "injuryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	injury, err := h.injuryService.Resolve(r.Context(), injuryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"injury": injury}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InjuryHandler) ListByLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.InjuryStatus
	if s := r.URL.Query().Get("status"); s != "" {
		injuryStatus := models.InjuryStatus(s)
		status = &injuryStatus
	}

	injuries, err := h.injuryService.ListByLeague(r.Context(), leagueID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"injuries": injuries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
