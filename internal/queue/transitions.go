package queue

import "github.com/pruebavolte/salvadorex-queue/internal/models"

// transitionMap lists the statuses each action may start from. Complete is
// only allowed from called so a served entry can never feed the stats
// accumulator twice. Cancel covers called as well: a till may void a ticket
// whose customer walked away after being called.
var transitionMap = map[string][]models.Status{
	"call_next": {models.StatusWaiting},
	"complete":  {models.StatusCalled},
	"cancel":    {models.StatusWaiting, models.StatusCalled},
}

func validTransition(action string, fromStatus models.Status) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}

	return false
}
