package seq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterContinuesFromSeed(t *testing.T) {
	c := New(41)
	assert.Equal(t, int64(42), c.Next())
	assert.Equal(t, int64(43), c.Next())
}

func TestCounterConcurrentUniqueness(t *testing.T) {
	c := New(0)
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := c.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
