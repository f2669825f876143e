package domain

import "errors"

var (
	ErrDraftNotFound = errors.New("offer draft not found")
	ErrInvalidImport = errors.New("invalid draft import payload")
)
