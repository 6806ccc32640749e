package models

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCalled    Status = "called"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from the status.
func (s Status) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// QueueEntry is a single customer's ticket, from arrival until it is served
// or cancelled. Entries are never deleted; terminal entries are retained for
// stats and audit. Position is meaningful only while the entry is waiting —
// afterwards it keeps the last value it held, informational only.
type QueueEntry struct {
	Id                   uuid.UUID  `json:"id"`
	TenantId             string     `json:"tenant_id"`
	TicketNumber         int        `json:"ticket_number"`
	CustomerName         string     `json:"customer_name,omitempty"`
	CustomerEmail        string     `json:"customer_email,omitempty"`
	CustomerPhone        string     `json:"customer_phone,omitempty"`
	Status               Status     `json:"status"`
	Position             int        `json:"position"`
	CreatedAt            time.Time  `json:"created_at"`
	CalledAt             *time.Time `json:"called_at,omitempty"`
	ServedAt             *time.Time `json:"served_at,omitempty"`
	EstimatedWaitMinutes int        `json:"estimated_wait_minutes"`
	ActualWaitMinutes    *int       `json:"actual_wait_minutes,omitempty"`
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}
