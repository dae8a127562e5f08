package models

type UserRole string

const (
	RoleAdmin UserRole = "ROLE_ADMIN"
	RoleUser  UserRole = "ROLE_USER"
)

type User struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
}

// UserSummary is the reduced user view exposed next to tournaments.
type UserSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
