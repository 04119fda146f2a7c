package entity

import "errors"

// Domain errors for items, scheduling and review sessions.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrDuplicateItem     = errors.New("item already exists")
	ErrInvalidItemText   = errors.New("invalid item text")
	ErrInvalidRating     = errors.New("invalid rating")
	ErrInvalidDirection  = errors.New("invalid review direction")
	ErrInvalidPromptMode = errors.New("invalid prompt mode")
	ErrInvalidLimit      = errors.New("session limit must be positive")
	ErrEmptyQueue        = errors.New("no cards due for review")
	ErrInvalidTransition = errors.New("invalid session transition")
)
