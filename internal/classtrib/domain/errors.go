package domain

import "errors"

var (
	ErrNotFound = errors.New("not_found")
)
