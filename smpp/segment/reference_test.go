package segment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefCounterSequence(t *testing.T) {
	c := NewRefCounter(0)
	assert.Equal(t, uint8(0), c.Next())
	assert.Equal(t, uint8(1), c.Next())

	c.Reset(254)
	assert.Equal(t, uint8(254), c.Next())
	assert.Equal(t, uint8(255), c.Next())
	assert.Equal(t, uint8(0), c.Next())
}

func TestRefCounterConcurrentUnique(t *testing.T) {
	c := NewRefCounter(42)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint8]int)
	)
	for i := 0; i < 256; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref := c.Next()
			mu.Lock()
			seen[ref]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 256)
	for ref, n := range seen {
		assert.Equal(t, 1, n, "reference %d handed out %d times", ref, n)
	}
	assert.Equal(t, uint8(42), c.Next())
}
