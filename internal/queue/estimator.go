package queue

import (
	"math"

	"github.com/pruebavolte/salvadorex-queue/internal/models"
)

// DefaultServiceMinutes seeds the estimate before any entry has been
// served, so early-day estimates are non-zero.
const DefaultServiceMinutes = 3

// Estimator prices the expected wait of a new arrival from the tenant's
// service history. Pure computation, no side effects.
type Estimator struct {
	bootstrapMinutes int
}

func NewEstimator(bootstrapMinutes int) *Estimator {
	if bootstrapMinutes <= 0 {
		bootstrapMinutes = DefaultServiceMinutes
	}

	return &Estimator{bootstrapMinutes: bootstrapMinutes}
}

// AverageServiceMinutes returns the rolling mean of actual waits across all
// served entries, or the bootstrap constant while nothing has been served.
func (es *Estimator) AverageServiceMinutes(stats models.TenantStats) int {
	if stats.TotalServed == 0 {
		return es.bootstrapMinutes
	}

	return int(math.Round(float64(stats.TotalWaitMinutes) / float64(stats.TotalServed)))
}

// EstimatedWait returns the expected wait for an arrival taking the given
// position, computed against the stats as they stand before insertion.
func (es *Estimator) EstimatedWait(position int, stats models.TenantStats) int {
	return position * es.AverageServiceMinutes(stats)
}
