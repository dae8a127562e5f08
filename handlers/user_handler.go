package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-registry/services"
)

type UserHandler struct {
	tournamentService services.TournamentService
	logger            *slog.Logger
}

func NewUserHandler(ts services.TournamentService, logger *slog.Logger) *UserHandler {
	return &UserHandler{tournamentService: ts, logger: logger}
}

// TournamentIDsHandler обрабатывает GET /users/{userID}/tournaments
func (h *UserHandler) TournamentIDsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	ids, err := h.tournamentService.ListTournamentIDsForUser(r.Context(), userID)
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament_ids": ids}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
