package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/services"
)

type TimerHandler struct {
	timerService services.TimerService
}

func NewTimerHandler(timerService services.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.timerService.Start)
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.timerService.Pause)
}

func (h *TimerHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.timerService.Resume)
}

func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.timerService.Reset)
}

// Clock отдаёт производное состояние часов: текущий уровень, секунды внутри
// уровня и признак открытого окна ребаев. Чтение без блокировок, поэтому
// ручку можно опрашивать часто.
func (h *TimerHandler) Clock(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.timerService.ClockState(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"clock": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Все четыре управляющие операции таймера имеют одинаковую форму:
// id из URL, вызов сервиса, обновлённый турнир в ответе.
func (h *TimerHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, tournamentID int) (*models.Tournament, error)) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := op(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
