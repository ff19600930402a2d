package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-league/services"
)

type RemovalHandler struct {
	removalService services.RemovalService
}

func NewRemovalHandler(removalService services.RemovalService) *RemovalHandler {
	return &RemovalHandler{removalService: removalService}
}

// RecordBust регистрирует быст (временное выбывание в окне ребаев).
func (h *RemovalHandler) RecordBust(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordBustInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = id

	bust, err := h.removalService.RecordBust(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bust": bust}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RemovalHandler) UndoLastBust(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bust, err := h.removalService.UndoLastBust(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"cancelled_bust": bust}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordElimination регистрирует окончательное выбывание с итоговым местом.
func (h *RemovalHandler) RecordElimination(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordEliminationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = id

	elimination, err := h.removalService.RecordElimination(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"elimination": elimination}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RemovalHandler) UndoLastElimination(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	elimination, err := h.removalService.UndoLastElimination(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"cancelled_elimination": elimination}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RemovalHandler) UndoLastRebuy(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enrollment, err := h.removalService.UndoLastRebuy(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament_player": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
