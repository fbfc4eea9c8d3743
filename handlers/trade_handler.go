package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type TradeHandler struct {
	tradeService services.TradeService
}

func NewTradeHandler(tradeService services.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateTradeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trade, err := h.tradeService.Create(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"trade": trade}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TradeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tradeID, err := getIDFromURL(r, "tradeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trade, err := h.tradeService.GetByID(r.Context(), tradeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"trade": trade}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TradeHandler) ListByLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trades, err := h.tradeService.ListByLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"trades": trades}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Accept применяет сделку атомарно: либо все активы переходят, либо ни один.
func (h *TradeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	tradeID, err := getIDFromURL(r, "tradeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trade, err := h.tradeService.Accept(r.Context(), tradeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"trade": trade}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TradeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	tradeID, err := getIDFromURL(r, "tradeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trade, err := h.tradeService.Reverse(r.Context(), tradeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"trade": trade}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TradeHandler) Reject(w http.ResponseWriter, r *http.Request) {
	tradeID, err := getIDFromURL(r, "tradeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trade, err := h.tradeService.Reject(r.Context(), tradeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"trade": trade}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
