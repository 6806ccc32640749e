package queue

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pruebavolte/salvadorex-queue/internal/models"
)

// FilterAll selects every non-terminal entry; any other non-empty filter
// value selects that exact status. Empty defaults to waiting.
const (
	FilterWaiting = "waiting"
	FilterAll     = "all"
)

// EventPublisher receives a notification after every successful transition.
// Publishing happens outside the tenant lock and must never block the
// originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, entry models.QueueEntry)
}

type EnqueueResult struct {
	Entry                models.QueueEntry `json:"entry"`
	Position             int               `json:"position"`
	EstimatedWaitMinutes int               `json:"estimatedWaitMinutes"`
	TicketNumber         int               `json:"queueNumber"`
}

type CallNextResult struct {
	Called    models.QueueEntry `json:"called"`
	Remaining int               `json:"remainingInQueue"`
}

// Service implements the queue state machine on top of Store. All
// mutations run inside the tenant's exclusive section; the position set of
// waiting entries is kept contiguous (1..N in FIFO order) across every
// operation.
type Service struct {
	log       *zerolog.Logger
	store     Store
	estimator *Estimator
	location  *time.Location
	now       func() time.Time
	publisher EventPublisher
}

// NewService - constructor for Service. The location fixes the tenant's
// calendar-day boundary for ticket numbering.
func NewService(store Store, estimator *Estimator, location *time.Location, log *zerolog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		log:       log,
		store:     store,
		estimator: estimator,
		location:  location,
		now:       time.Now,
		publisher: nil,
	}
}

// WithPublisher attaches a lifecycle event publisher.
func (sv *Service) WithPublisher(publisher EventPublisher) *Service {
	sv.publisher = publisher

	return sv
}

// WithClock overrides the time source, used by tests.
func (sv *Service) WithClock(now func() time.Time) *Service {
	sv.now = now

	return sv
}

// Enqueue creates a waiting entry at the tail of the tenant's queue,
// assigning the next per-day ticket number and pricing the estimated wait
// against the stats as they stand before insertion.
func (sv *Service) Enqueue(ctx context.Context, tenantID string, info models.CustomerInfo) (*EnqueueResult, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	var result EnqueueResult

	err := sv.store.WithTenant(tenantID, func(state *TenantState) error {
		now := sv.now()
		day := sv.dayKey(now)

		state.DailyCounters[day]++
		ticketNumber := state.DailyCounters[day]

		position := countWaiting(state) + 1
		estimated := sv.estimator.EstimatedWait(position, state.Stats)

		entry := &models.QueueEntry{
			Id:                   uuid.New(),
			TenantId:             tenantID,
			TicketNumber:         ticketNumber,
			CustomerName:         info.Name,
			CustomerEmail:        info.Email,
			CustomerPhone:        info.Phone,
			Status:               models.StatusWaiting,
			Position:             position,
			CreatedAt:            now,
			CalledAt:             nil,
			ServedAt:             nil,
			EstimatedWaitMinutes: estimated,
			ActualWaitMinutes:    nil,
		}
		state.Entries = append(state.Entries, entry)

		result = EnqueueResult{
			Entry:                *entry,
			Position:             position,
			EstimatedWaitMinutes: estimated,
			TicketNumber:         ticketNumber,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sv.log.Info().
		Str("tenantID", tenantID).
		Int("ticket", result.TicketNumber).
		Int("position", result.Position).
		Msg("Entry enqueued")

	sv.publish(ctx, "enqueued", result.Entry)

	return &result, nil
}

// ListQueue returns a consistent snapshot of the tenant's entries matching
// the filter, ordered ascending by position. Entries past waiting carry the
// position they held when they left it.
func (sv *Service) ListQueue(_ context.Context, tenantID, filter string) ([]models.QueueEntry, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	if filter == "" {
		filter = FilterWaiting
	}

	var entries []models.QueueEntry

	err := sv.store.WithTenant(tenantID, func(state *TenantState) error {
		for _, entry := range state.Entries {
			if matchesFilter(entry.Status, filter) {
				entries = append(entries, *entry)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	return entries, nil
}

// Stats returns the waiting count and the current average service time.
func (sv *Service) Stats(_ context.Context, tenantID string) (models.QueueStats, error) {
	var stats models.QueueStats

	if tenantID == "" {
		return stats, ErrTenantRequired
	}

	err := sv.store.WithTenant(tenantID, func(state *TenantState) error {
		stats = models.QueueStats{
			Waiting:            countWaiting(state),
			AverageWaitMinutes: sv.estimator.AverageServiceMinutes(state.Stats),
			TotalServedToday:   state.Stats.TotalServed,
		}

		return nil
	})
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// CallNext transitions the front waiting entry to called, records its
// actual wait and renumbers the remaining waiting entries back to 1..M.
func (sv *Service) CallNext(ctx context.Context, tenantID string) (*CallNextResult, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	var result CallNextResult

	err := sv.store.WithTenant(tenantID, func(state *TenantState) error {
		entry := firstWaiting(state)
		if entry == nil {
			return ErrQueueEmpty
		}

		now := sv.now()
		waited := wholeMinutes(now.Sub(entry.CreatedAt))

		entry.Status = models.StatusCalled
		entry.CalledAt = &now
		entry.ActualWaitMinutes = &waited

		renumberWaiting(state)

		result = CallNextResult{
			Called:    *entry,
			Remaining: countWaiting(state),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sv.log.Info().
		Str("tenantID", tenantID).
		Int("ticket", result.Called.TicketNumber).
		Int("remaining", result.Remaining).
		Msg("Entry called")

	sv.publish(ctx, "called", result.Called)

	return &result, nil
}

// Complete marks a called entry served and folds its actual wait into the
// tenant stats. Only the called status is accepted, so an entry contributes
// to the stats at most once.
func (sv *Service) Complete(ctx context.Context, tenantID, entryID string) (*models.QueueEntry, error) {
	return sv.transition(ctx, tenantID, entryID, "complete", "served", func(state *TenantState, entry *models.QueueEntry) {
		now := sv.now()
		entry.Status = models.StatusServed
		entry.ServedAt = &now

		state.Stats.TotalServed++
		if entry.ActualWaitMinutes != nil {
			state.Stats.TotalWaitMinutes += *entry.ActualWaitMinutes
		}
	})
}

// Cancel voids a waiting or called entry and renumbers the remaining
// waiting entries. Terminal entries are rejected.
func (sv *Service) Cancel(ctx context.Context, tenantID, entryID string) (*models.QueueEntry, error) {
	return sv.transition(ctx, tenantID, entryID, "cancel", "cancelled", func(state *TenantState, entry *models.QueueEntry) {
		entry.Status = models.StatusCancelled

		renumberWaiting(state)
	})
}

func (sv *Service) transition(
	ctx context.Context,
	tenantID, entryID, action, eventType string,
	apply func(state *TenantState, entry *models.QueueEntry),
) (*models.QueueEntry, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	var transitioned models.QueueEntry

	err := sv.store.WithTenant(tenantID, func(state *TenantState) error {
		entry := findEntry(state, entryID)
		if entry == nil {
			return ErrEntryNotFound
		}

		if !validTransition(action, entry.Status) {
			return ErrInvalidTransition
		}

		apply(state, entry)
		transitioned = *entry

		return nil
	})
	if err != nil {
		return nil, err
	}

	sv.publish(ctx, eventType, transitioned)

	return &transitioned, nil
}

func (sv *Service) publish(ctx context.Context, eventType string, entry models.QueueEntry) {
	if sv.publisher == nil {
		return
	}

	sv.publisher.Publish(ctx, eventType, entry)
}

// dayKey derives the ticket-counter key in the configured location, never
// implicitly from the host zone.
func (sv *Service) dayKey(t time.Time) string {
	return t.In(sv.location).Format(time.DateOnly)
}

func wholeMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

func countWaiting(state *TenantState) int {
	count := 0
	for _, entry := range state.Entries {
		if entry.Status == models.StatusWaiting {
			count++
		}
	}

	return count
}

// firstWaiting returns the waiting entry with the smallest position.
// Entries are kept in insertion order, so the first waiting one is also
// the earliest created.
func firstWaiting(state *TenantState) *models.QueueEntry {
	for _, entry := range state.Entries {
		if entry.Status == models.StatusWaiting {
			return entry
		}
	}

	return nil
}

func findEntry(state *TenantState, entryID string) *models.QueueEntry {
	for _, entry := range state.Entries {
		if entry.Id.String() == entryID {
			return entry
		}
	}

	return nil
}

// renumberWaiting restores the contiguous 1..N position set over waiting
// entries, preserving FIFO order.
func renumberWaiting(state *TenantState) {
	position := 1

	for _, entry := range state.Entries {
		if entry.Status == models.StatusWaiting {
			entry.Position = position
			position++
		}
	}
}

func matchesFilter(status models.Status, filter string) bool {
	switch filter {
	case FilterAll:
		return !status.Terminal()
	default:
		return status == models.Status(filter)
	}
}
