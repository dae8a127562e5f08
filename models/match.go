package models

type Match struct {
	ID           int     `json:"id" db:"match_id"`
	TournamentID int     `json:"tournament_id" db:"tournament_id"`
	HomePlayer   string  `json:"home_player" db:"home_player"`
	AwayPlayer   string  `json:"away_player" db:"away_player"`
	Winner       *string `json:"winner,omitempty" db:"winner"` // nil until the match is decided
}
