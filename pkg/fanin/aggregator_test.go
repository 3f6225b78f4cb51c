package fanin

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_FiresOnceWithAllOutcomes(t *testing.T) {
	const total = 50

	var fires int32
	var got Result
	agg := New(total, func(r Result) {
		atomic.AddInt32(&fires, 1)
		got = r
	})

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			agg.Done(Outcome{ID: "device"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
	assert.Equal(t, total, got.Total)
	assert.Equal(t, total, got.Succeeded)
	assert.Equal(t, 0, got.Failed)
	assert.Len(t, got.Outcomes, total)
	assert.Equal(t, 0, agg.Pending())
}

func TestAggregator_ZeroTotalFiresImmediately(t *testing.T) {
	fired := false
	New(0, func(r Result) {
		fired = true
		assert.Equal(t, 0, r.Total)
		assert.Empty(t, r.Outcomes)
	})
	assert.True(t, fired)
}

func TestAggregator_CountsFailuresAsData(t *testing.T) {
	var got Result
	agg := New(3, func(r Result) { got = r })

	agg.Done(Outcome{ID: "a"})
	agg.Done(Outcome{ID: "b", Err: errors.New("send failed")})
	agg.Done(Outcome{ID: "c"})

	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	assert.Len(t, got.Outcomes, 3)
}

func TestAggregator_IgnoresExtraReports(t *testing.T) {
	var fires int
	agg := New(2, func(Result) { fires++ })

	agg.Done(Outcome{ID: "a"})
	agg.Done(Outcome{ID: "b"})
	agg.Done(Outcome{ID: "late"})
	agg.Done(Outcome{ID: "later"})

	assert.Equal(t, 1, fires)
}

func TestAggregator_ConcurrentMixedOutcomes(t *testing.T) {
	const total = 100

	var fires int32
	done := make(chan Result, 1)
	agg := New(total, func(r Result) {
		atomic.AddInt32(&fires, 1)
		done <- r
	})

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var err error
			if n%4 == 0 {
				err = errors.New("branch failed")
			}
			agg.Done(Outcome{ID: "branch", Err: err})
		}(i)
	}
	wg.Wait()

	r := <-done
	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
	assert.Equal(t, 25, r.Failed)
	assert.Equal(t, 75, r.Succeeded)
}
