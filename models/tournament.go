package models

import "time"

// Tournament представляет турнир.
type Tournament struct {
	ID                int       `json:"id" db:"tournament_id"`
	OrganizerID       int       `json:"organizer_id" db:"organizer_id"`
	OrganizerName     string    `json:"organizer_name" db:"-"` // берётся из users, в таблице не хранится
	Name              string    `json:"name" db:"name"`
	NumOfParticipants int       `json:"num_of_participants" db:"num_of_participants"`
	Type              string    `json:"type" db:"type"`
	FromDate          time.Time `json:"from_date" db:"from_date"`
	ToDate            time.Time `json:"to_date" db:"to_date"`
	Game              string    `json:"game" db:"game"`
	ImgURL            *string   `json:"img_url,omitempty" db:"img_url"`
}

// TournamentOverview собирает турнир вместе с участниками и матчами.
type TournamentOverview struct {
	Tournament   *Tournament   `json:"tournament"`
	Participants []UserSummary `json:"participants"`
	Matches      []Match       `json:"matches"`
}
