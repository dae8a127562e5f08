package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-registry/models"
	"github.com/Dosada05/tournament-registry/repositories"
	"github.com/Dosada05/tournament-registry/storage"
	"golang.org/x/sync/errgroup"
)

const DateLayout = "2006-01-02"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type TournamentService interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	GetTournamentByName(ctx context.Context, name string) (*models.Tournament, error)
	GetTournamentIDByName(ctx context.Context, name string) (int, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]models.UserSummary, error)
	ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
	ListTournamentIDsForUser(ctx context.Context, userID int) ([]int, error)
	GetOverview(ctx context.Context, tournamentID int) (*models.TournamentOverview, error)
	CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	UploadTournamentImage(ctx context.Context, id int, contentType string, image io.ReadSeeker) (*models.Tournament, error)
}

// TournamentInput is the writable part of a tournament. Dates use DateLayout.
type TournamentInput struct {
	OrganizerID       int     `json:"organizer_id"`
	Name              string  `json:"name"`
	NumOfParticipants int     `json:"num_of_participants"`
	Type              string  `json:"type"`
	FromDate          string  `json:"from_date"`
	ToDate            string  `json:"to_date"`
	Game              string  `json:"game"`
	ImgURL            *string `json:"img_url,omitempty"`
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

// NewTournamentService builds the service. uploader may be nil, in which case
// image uploads fail with ErrImageStorageDisabled.
func NewTournamentService(repo repositories.TournamentRepository, uploader storage.FileUploader, logger *slog.Logger) TournamentService {
	return &tournamentService{
		repo:     repo,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, translateTournamentError(err, "list tournaments")
	}
	return tournaments, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("get tournament %d", id))
	}
	return t, nil
}

func (s *tournamentService) GetTournamentByName(ctx context.Context, name string) (*models.Tournament, error) {
	t, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("get tournament %q", name))
	}
	return t, nil
}

func (s *tournamentService) GetTournamentIDByName(ctx context.Context, name string) (int, error) {
	id, err := s.repo.FindIDByName(ctx, name)
	if err != nil {
		return 0, translateTournamentError(err, fmt.Sprintf("get id of tournament %q", name))
	}
	return id, nil
}

func (s *tournamentService) ListParticipants(ctx context.Context, tournamentID int) ([]models.UserSummary, error) {
	users, err := s.repo.FindUsers(ctx, tournamentID)
	if err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("list participants of tournament %d", tournamentID))
	}
	return users, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	matches, err := s.repo.FindMatches(ctx, tournamentID)
	if err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("list matches of tournament %d", tournamentID))
	}
	return matches, nil
}

func (s *tournamentService) ListTournamentIDsForUser(ctx context.Context, userID int) ([]int, error) {
	ids, err := s.repo.GetIDsForUser(ctx, userID)
	if err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("list tournaments of user %d", userID))
	}
	return ids, nil
}

// GetOverview loads the tournament, its participants and its matches concurrently.
func (s *tournamentService) GetOverview(ctx context.Context, tournamentID int) (*models.TournamentOverview, error) {
	overview := &models.TournamentOverview{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.repo.FindByID(gCtx, tournamentID)
		if err != nil {
			return err
		}
		overview.Tournament = t
		return nil
	})
	g.Go(func() error {
		users, err := s.repo.FindUsers(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("participants: %w", err)
		}
		overview.Participants = users
		return nil
	})
	g.Go(func() error {
		matches, err := s.repo.FindMatches(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("matches: %w", err)
		}
		overview.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("load overview of tournament %d", tournamentID))
	}
	return overview, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	t, err := input.toModel()
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, translateTournamentError(err, "create tournament")
	}
	s.logger.InfoContext(ctx, "tournament created", slog.Int("tournament_id", id), slog.String("name", t.Name))

	// Перечитываем, чтобы вернуть имя организатора.
	return s.GetTournament(ctx, id)
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	t, err := input.toModel()
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, t, id)
	if err != nil {
		return nil, translateTournamentError(err, fmt.Sprintf("update tournament %d", id))
	}
	if !updated {
		return nil, ErrTournamentNotFound
	}

	return s.GetTournament(ctx, id)
}

func (s *tournamentService) UploadTournamentImage(ctx context.Context, id int, contentType string, image io.ReadSeeker) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrImageStorageDisabled
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, contentType)
	}

	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/image-%d%s", id, s.now().Unix(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, image)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image for tournament %d: %w", id, err)
	}

	location := result.Location
	t.ImgURL = &location

	updated, err := s.repo.Update(ctx, t, id)
	if err == nil && !updated {
		err = ErrTournamentNotFound
	}
	if err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned tournament image",
				slog.Int("tournament_id", id), slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, translateTournamentError(err, fmt.Sprintf("store image url of tournament %d", id))
	}

	s.logger.InfoContext(ctx, "tournament image updated", slog.Int("tournament_id", id), slog.String("key", result.Key))
	return t, nil
}

func (in TournamentInput) toModel() (*models.Tournament, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if in.OrganizerID <= 0 {
		return nil, ErrTournamentOrganizerInvalid
	}
	if in.NumOfParticipants <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	tournamentType := strings.TrimSpace(in.Type)
	if tournamentType == "" {
		return nil, ErrTournamentTypeRequired
	}
	game := strings.TrimSpace(in.Game)
	if game == "" {
		return nil, ErrTournamentGameRequired
	}

	from, err := time.Parse(DateLayout, in.FromDate)
	if err != nil {
		return nil, fmt.Errorf("%w: from_date %q", ErrTournamentInvalidDate, in.FromDate)
	}
	to, err := time.Parse(DateLayout, in.ToDate)
	if err != nil {
		return nil, fmt.Errorf("%w: to_date %q", ErrTournamentInvalidDate, in.ToDate)
	}
	if to.Before(from) {
		return nil, ErrTournamentInvalidDateRange
	}

	return &models.Tournament{
		OrganizerID:       in.OrganizerID,
		Name:              name,
		NumOfParticipants: in.NumOfParticipants,
		Type:              tournamentType,
		FromDate:          from,
		ToDate:            to,
		Game:              game,
		ImgURL:            in.ImgURL,
	}, nil
}

func translateTournamentError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameRequired):
		return ErrTournamentNameRequired
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTournamentInvalidOrg):
		return ErrTournamentInvalidOrg
	case errors.Is(err, repositories.ErrOrganizerNotFound):
		return fmt.Errorf("%w: %v", ErrOrganizerNotFound, err)
	case errors.Is(err, ErrTournamentNotFound):
		return err
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
