package queue_test

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pruebavolte/salvadorex-queue/internal/queue"
)

func TestMemStore_LazyStateCreation(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	store := queue.NewMemStore(&logger)

	err := store.WithTenant("t1", func(state *queue.TenantState) error {
		require.NotNil(t, state)
		assert.Empty(t, state.Entries)
		assert.Empty(t, state.DailyCounters)
		assert.Zero(t, state.Stats.TotalServed)

		return nil
	})
	require.NoError(t, err)
}

func TestMemStore_SerializedMutations(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	store := queue.NewMemStore(&logger)

	const workers = 100

	var wg sync.WaitGroup
	wg.Add(workers)

	// Unsynchronized read-modify-write on the counter would lose updates
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			_ = store.WithTenant("t1", func(state *queue.TenantState) error {
				state.DailyCounters["2025-06-02"]++

				return nil
			})
		}()
	}

	wg.Wait()

	err := store.WithTenant("t1", func(state *queue.TenantState) error {
		assert.Equal(t, workers, state.DailyCounters["2025-06-02"])

		return nil
	})
	require.NoError(t, err)
}

func TestMemStore_TenantsIsolated(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	store := queue.NewMemStore(&logger)

	var wg sync.WaitGroup
	wg.Add(2)

	for _, tenantID := range []string{"t1", "t2"} {
		go func(id string) {
			defer wg.Done()

			for i := 0; i < 50; i++ {
				_ = store.WithTenant(id, func(state *queue.TenantState) error {
					state.Stats.TotalServed++

					return nil
				})
			}
		}(tenantID)
	}

	wg.Wait()

	for _, tenantID := range []string{"t1", "t2"} {
		err := store.WithTenant(tenantID, func(state *queue.TenantState) error {
			assert.Equal(t, 50, state.Stats.TotalServed)

			return nil
		})
		require.NoError(t, err)
	}
}

func TestMemStore_PropagatesError(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	store := queue.NewMemStore(&logger)

	err := store.WithTenant("t1", func(_ *queue.TenantState) error {
		return queue.ErrQueueEmpty
	})
	require.ErrorIs(t, err, queue.ErrQueueEmpty)
}
