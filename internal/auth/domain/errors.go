package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidRole        = errors.New("invalid_role")
)
