package events

import "errors"

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrEventFull      = errors.New("event is full")
	ErrInvalidFilters = errors.New("invalid event filters")
)
