package evaluation

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name            string
		numWorkers      int
		expectedWorkers int
	}{
		{"positive workers", 8, 8},
		{"zero workers uses default", 0, DefaultWorkers},
		{"negative workers uses default", -3, DefaultWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newWorkerPool(tt.numWorkers)
			assert.Equal(t, tt.expectedWorkers, pool.numWorkers)
		})
	}
}

func TestWorkerPool_Empty(t *testing.T) {
	pool := newWorkerPool(2)
	outcomes := pool.run(nil, func(time.Time) expirationOutcome {
		t.Fatal("fn must not be called")
		return expirationOutcome{}
	})
	assert.Empty(t, outcomes)
}

func TestWorkerPool_PreservesOrder(t *testing.T) {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	expirations := make([]time.Time, 20)
	for i := range expirations {
		expirations[i] = base.AddDate(0, 0, 300+i)
	}

	var calls int32
	pool := newWorkerPool(4)
	outcomes := pool.run(expirations, func(exp time.Time) expirationOutcome {
		atomic.AddInt32(&calls, 1)
		// Later expirations finish first
		time.Sleep(time.Duration(320-exp.Sub(base).Hours()/24) * 50 * time.Microsecond)
		return expirationOutcome{rows: []Row{{Expiration: exp}}}
	})

	require.Len(t, outcomes, len(expirations))
	assert.Equal(t, int32(len(expirations)), atomic.LoadInt32(&calls))
	for i, o := range outcomes {
		require.Len(t, o.rows, 1)
		assert.Equal(t, expirations[i], o.rows[0].Expiration)
	}
}

func TestWorkerPool_MoreWorkersThanJobs(t *testing.T) {
	exp := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	pool := newWorkerPool(16)

	outcomes := pool.run([]time.Time{exp}, func(e time.Time) expirationOutcome {
		return expirationOutcome{warning: &ExpirationError{Expiration: e, Reason: SkipEmptyChain}}
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, SkipEmptyChain, outcomes[0].warning.Reason)
}
