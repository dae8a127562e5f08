package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-registry/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameRequired = errors.New("tournament name cannot be empty")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
	ErrOrganizerNotFound      = errors.New("tournament organizer not found")
)

const (
	tournamentNameUniqueConstraint = "tournaments_name_key"
	tournamentOrganizerFKey        = "tournaments_organizer_id_fkey"
)

const tournamentColumns = `tournament_id, organizer_id, name, num_of_participants, type, from_date, to_date, game, img_url`

type TournamentRepository interface {
	FindAll(ctx context.Context) ([]models.Tournament, error)
	GetIDsForUser(ctx context.Context, userID int) ([]int, error)
	FindByID(ctx context.Context, id int) (*models.Tournament, error)
	FindByName(ctx context.Context, name string) (*models.Tournament, error)
	FindIDByName(ctx context.Context, name string) (int, error)
	FindUsers(ctx context.Context, tournamentID int) ([]models.UserSummary, error)
	FindMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
	Create(ctx context.Context, tournament *models.Tournament) (int, error)
	// Update reports false, without an error, when no row has the given id.
	Update(ctx context.Context, tournament *models.Tournament, id int) (bool, error)
}

type postgresTournamentRepository struct {
	db    *sql.DB
	users UserLookup
}

func NewPostgresTournamentRepository(db *sql.DB, users UserLookup) TournamentRepository {
	return &postgresTournamentRepository{db: db, users: users}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.OrganizerID, &t.Name, &t.NumOfParticipants, &t.Type,
		&t.FromDate, &t.ToDate, &t.Game, &t.ImgURL,
	)
}

func (r *postgresTournamentRepository) FindAll(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}

	refs := make([]*models.Tournament, len(tournaments))
	for i := range tournaments {
		refs[i] = &tournaments[i]
	}
	if err := r.resolveOrganizers(ctx, refs...); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) GetIDsForUser(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT tournament_id FROM tournament_user WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments of user %d: %w", userID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tournament id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresTournamentRepository) FindByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE tournament_id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresTournamentRepository) FindByName(ctx context.Context, name string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE name = $1`
	return r.findOne(ctx, query, name)
}

func (r *postgresTournamentRepository) FindIDByName(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, ErrTournamentNameRequired
	}

	var id int
	err := r.db.QueryRowContext(ctx, `SELECT tournament_id FROM tournaments WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTournamentNotFound
		}
		return 0, fmt.Errorf("failed to query id of tournament %q: %w", name, err)
	}
	return id, nil
}

func (r *postgresTournamentRepository) FindUsers(ctx context.Context, tournamentID int) ([]models.UserSummary, error) {
	query := `
		SELECT u.user_id, u.username
		FROM users u
		JOIN tournament_user tu ON u.user_id = tu.user_id
		WHERE tu.tournament_id = $1`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	users := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresTournamentRepository) FindMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT match_id, tournament_id, home_player, away_player, winner
		FROM matches
		WHERE tournament_id = $1`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.HomePlayer, &m.AwayPlayer, &m.Winner); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Create inserts the tournament and stores the generated id back into t.
// OrganizerName is derived on read and is not persisted.
func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) (int, error) {
	query := `
		INSERT INTO tournaments (
			organizer_id, name, num_of_participants, type, from_date, to_date, game, img_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING tournament_id`

	err := r.db.QueryRowContext(ctx, query,
		t.OrganizerID, t.Name, t.NumOfParticipants, t.Type,
		t.FromDate, t.ToDate, t.Game, t.ImgURL,
	).Scan(&t.ID)
	if err != nil {
		return 0, r.handleTournamentError(err)
	}
	return t.ID, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament, id int) (bool, error) {
	query := `
		UPDATE tournaments SET
			organizer_id = $1,
			name = $2,
			num_of_participants = $3,
			type = $4,
			from_date = $5,
			to_date = $6,
			game = $7,
			img_url = $8
		WHERE tournament_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		t.OrganizerID, t.Name, t.NumOfParticipants, t.Type,
		t.FromDate, t.ToDate, t.Game, t.ImgURL,
		id,
	)
	if err != nil {
		return false, r.handleTournamentError(err)
	}
	return affectedExactlyOne(result)
}

func (r *postgresTournamentRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	if err := scanTournament(r.db.QueryRowContext(ctx, query, arg), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	if err := r.resolveOrganizers(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// resolveOrganizers fills OrganizerName with a single batched user lookup.
func (r *postgresTournamentRepository) resolveOrganizers(ctx context.Context, tournaments ...*models.Tournament) error {
	if len(tournaments) == 0 {
		return nil
	}

	ids := make([]int, 0, len(tournaments))
	for _, t := range tournaments {
		ids = append(ids, t.OrganizerID)
	}

	usernames, err := r.users.GetUsernames(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve tournament organizers: %w", err)
	}

	for _, t := range tournaments {
		name, ok := usernames[t.OrganizerID]
		if !ok {
			return fmt.Errorf("%w: user %d (tournament %d)", ErrOrganizerNotFound, t.OrganizerID, t.ID)
		}
		t.OrganizerName = name
	}
	return nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := isUniqueViolation(err); ok && constraint == tournamentNameUniqueConstraint {
		return ErrTournamentNameConflict
	}
	if constraint, ok := isForeignKeyViolation(err); ok && constraint == tournamentOrganizerFKey {
		return ErrTournamentInvalidOrg
	}
	return err
}
