package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-registry/services"
)

const (
	maxImageBytes = 5 << 20 // 5MB
	// запас на multipart-границы и заголовки частей
	maxImageRequestBytes = maxImageBytes + 1<<20
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	logger            *slog.Logger
}

func NewTournamentHandler(ts services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		logger:            logger,
	}
}

// ListHandler обрабатывает GET /tournaments
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// CreateHandler обрабатывает POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/tournaments/%d", tournament.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, headers); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// GetByIDHandler обрабатывает GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// GetByNameHandler обрабатывает GET /tournaments/by-name/{name}
func (h *TournamentHandler) GetByNameHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.GetTournamentByName(r.Context(), getStringFromURL(r, "name"))
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// GetIDByNameHandler обрабатывает GET /tournaments/by-name/{name}/id
func (h *TournamentHandler) GetIDByNameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.tournamentService.GetTournamentIDByName(r.Context(), getStringFromURL(r, "name"))
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament_id": id}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// UpdateHandler обрабатывает PUT /tournaments/{tournamentID}
func (h *TournamentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), id, input)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// ParticipantsHandler обрабатывает GET /tournaments/{tournamentID}/participants
func (h *TournamentHandler) ParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	users, err := h.tournamentService.ListParticipants(r.Context(), id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": users}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// MatchesHandler обрабатывает GET /tournaments/{tournamentID}/matches
func (h *TournamentHandler) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// OverviewHandler обрабатывает GET /tournaments/{tournamentID}/overview
func (h *TournamentHandler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	overview, err := h.tournamentService.GetOverview(r.Context(), id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// UploadImageHandler обрабатывает POST /tournaments/{tournamentID}/image (multipart, поле "image")
func (h *TournamentHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequestBytes)
	if err := r.ParseMultipartForm(maxImageRequestBytes); err != nil {
		badRequestResponse(w, r, h.logger, fmt.Errorf("invalid multipart form (max %d bytes): %w", maxImageBytes, err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, h.logger, errors.New("multipart field \"image\" is required"))
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		badRequestResponse(w, r, h.logger, fmt.Errorf("image must not be larger than %d bytes", maxImageBytes))
		return
	}

	// Content-Type определяем по содержимому, заголовку клиента не доверяем.
	contentType, err := sniffContentType(file)
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}

	tournament, err := h.tournamentService.UploadTournamentImage(r.Context(), id, contentType, file)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "tournament image uploaded",
		slog.Int("tournament_id", id), slog.String("filename", header.Filename), slog.String("content_type", contentType))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// sniffContentType определяет тип по первым 512 байтам и возвращает file в начало,
// чтобы в хранилище ушёл исходный io.ReadSeeker с известной длиной.
func sniffContentType(file io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read uploaded image: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded image: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}

// mapServiceError преобразует ошибки TournamentService в HTTP статусы.
func (h *TournamentHandler) mapServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound):
		notFoundResponse(w, r, h.logger)
	case errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, services.ErrTournamentOrganizerInvalid),
		errors.Is(err, services.ErrTournamentInvalidCapacity),
		errors.Is(err, services.ErrTournamentTypeRequired),
		errors.Is(err, services.ErrTournamentGameRequired),
		errors.Is(err, services.ErrTournamentInvalidDate),
		errors.Is(err, services.ErrTournamentInvalidDateRange),
		errors.Is(err, services.ErrTournamentInvalidOrg),
		errors.Is(err, services.ErrUnsupportedImageFormat):
		badRequestResponse(w, r, h.logger, err)
	case errors.Is(err, services.ErrTournamentNameConflict):
		conflictResponse(w, r, h.logger, err.Error())
	case errors.Is(err, services.ErrImageStorageDisabled):
		unavailableResponse(w, r, h.logger, err.Error())
	default:
		// ErrOrganizerNotFound тоже сюда: это нарушение ссылочной целостности, а не ошибка клиента.
		serverErrorResponse(w, r, h.logger, err)
	}
}
