package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-league/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetLeaderboard отдаёт сезонную таблицу: только лучшие N результатов каждого
// игрока идут в сумму, победы и подиумы считаются по всем турнирам.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.leaderboardService.ComputeLeaderboard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateSeason сверяет сохранённые очки всех завершённых турниров сезона
// с текущей конфигурацией начисления и перезаписывает расхождения.
func (h *LeaderboardHandler) RecalculateSeason(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.leaderboardService.RecalculateSeason(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"updated_players": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
