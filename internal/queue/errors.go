package queue

import "errors"

var (
	ErrTenantRequired    = errors.New("tenant id is required")
	ErrQueueEmpty        = errors.New("no waiting entries")
	ErrEntryNotFound     = errors.New("queue entry not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
