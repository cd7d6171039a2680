package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDisabled      = errors.New("account disabled")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrSessionNotFound      = errors.New("game session not found")
	ErrSessionEnded         = errors.New("game session already ended")
	ErrInvalidFormat        = errors.New("invalid report format, expected json, xlsx or pdf")
	ErrUnknownGameType      = errors.New("unknown game type")
)
