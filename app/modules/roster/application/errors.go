package rosterservice

import "errors"

var (
	// ErrPlayerNotFound is returned when no record carries the requested name.
	ErrPlayerNotFound = errors.New("player not found")
)
