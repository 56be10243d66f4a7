package idworker

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDUnique(t *testing.T) {
	w, err := New(1)
	require.NoError(t, err)

	const n = 1000
	var mu sync.Mutex
	seen := make(map[string]struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := w.NextID()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)

	for id := range seen {
		_, err := strconv.ParseInt(id, 10, 64)
		assert.NoError(t, err)
		break
	}
}

func TestInvalidNode(t *testing.T) {
	_, err := New(5000)
	assert.Error(t, err)
}
