package services

import "errors"

var (
	// Draft errors
	ErrNoDraft = errors.New("no current draft")

	// Auth errors
	ErrNicknameTooShort   = errors.New("nickname must be at least 2 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNicknameTaken      = errors.New("nickname already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAuthUnavailable    = errors.New("DATABASE_URL not configured")
)
