package usecase

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrTeamNotFound      = errors.New("team not found")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
