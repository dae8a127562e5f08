package services

import "errors"

// Общие ошибки сервисного слоя, которые handlers маппят в HTTP-статусы.
var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrOrganizerNotFound      = errors.New("tournament organizer not found")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTournamentInvalidOrg   = errors.New("organizer does not exist")

	ErrTournamentInvalidCapacity  = errors.New("tournament number of participants must be positive")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must not be before start date")
	ErrTournamentInvalidDate      = errors.New("tournament dates must use the YYYY-MM-DD format")
	ErrTournamentTypeRequired     = errors.New("tournament type is required")
	ErrTournamentGameRequired     = errors.New("tournament game is required")
	ErrTournamentOrganizerInvalid = errors.New("tournament organizer id must be positive")

	ErrImageStorageDisabled   = errors.New("image storage is not configured")
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
)
