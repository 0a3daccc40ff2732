package domain

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidFormat  = errors.New("invalid_format")
	ErrNotFound       = errors.New("not_found")
	ErrRenderFailed   = errors.New("render_failed")
)
