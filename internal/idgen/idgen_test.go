package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_TimeDerived(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	g := NewWithClock(func() time.Time { return at })

	assert.Equal(t, int64(1_700_000_000_000), g.Next())
}

func TestNext_SameMillisecondStillIncreases(t *testing.T) {
	at := time.UnixMilli(1000)
	g := NewWithClock(func() time.Time { return at })

	a, b, c := g.Next(), g.Next(), g.Next()
	assert.Equal(t, []int64{1000, 1001, 1002}, []int64{a, b, c})
}

func TestNext_ClockGoesBack(t *testing.T) {
	at := time.UnixMilli(5000)
	g := NewWithClock(func() time.Time { return at })
	first := g.Next()

	at = time.UnixMilli(10)
	assert.Greater(t, g.Next(), first)
}

func TestObserve(t *testing.T) {
	g := NewWithClock(func() time.Time { return time.UnixMilli(1) })
	g.Observe(99)
	assert.Equal(t, int64(100), g.Next())

	g.Observe(5)
	assert.Equal(t, int64(101), g.Next())
}

func TestNext_ConcurrentUnique(t *testing.T) {
	g := New()
	const n = 500

	var mu sync.Mutex
	seen := make(map[int64]struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, seen, n)
}
