package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/poker-league/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrTournamentNotFound, http.StatusNotFound},
		{"validation", services.ErrBlindLevelInvalid, http.StatusUnprocessableEntity},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"state conflict", services.ErrTimerAlreadyRunning, http.StatusConflict},
		{"rebuy window closed", services.ErrRebuysClosed, http.StatusConflict},
		{"optimistic lock lost", services.ErrConcurrentModification, http.StatusConflict},
		{"undo blocked", services.ErrUndoBlockedByElimination, http.StatusConflict},
		{"frozen blind structure", services.ErrBlindStructureFrozen, http.StatusConflict},
		{"wrapped sentinel keeps its status", services.ErrValidationFailed, http.StatusUnprocessableEntity},
		{"unknown error is a 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			mapServiceErrorToHTTP(rec, req, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	newRequest := func(param, value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(param, value)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := getIDFromURL(newRequest("tournamentID", "42"), "tournamentID")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = getIDFromURL(newRequest("tournamentID", "abc"), "tournamentID")
	assert.Error(t, err)

	_, err = getIDFromURL(newRequest("tournamentID", "0"), "tournamentID")
	assert.Error(t, err)

	_, err = getIDFromURL(newRequest("tournamentID", "-5"), "tournamentID")
	assert.Error(t, err)
}
