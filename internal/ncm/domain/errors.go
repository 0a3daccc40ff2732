package domain

import "errors"

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidCode = errors.New("invalid_ncm_code")
)
