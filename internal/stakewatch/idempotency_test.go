package stakewatch

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenSet_MarkSeen(t *testing.T) {
	t.Run("reports the first sighting as new", func(t *testing.T) {
		seen := newSeenSet(4)
		assert.True(t, seen.MarkSeen("0xaaa:0x0"))
	})

	t.Run("suppresses a repeated key", func(t *testing.T) {
		seen := newSeenSet(4)

		require.True(t, seen.MarkSeen("0xaaa:0x0"))
		assert.False(t, seen.MarkSeen("0xaaa:0x0"))
	})

	t.Run("tracks distinct keys independently", func(t *testing.T) {
		seen := newSeenSet(4)

		assert.True(t, seen.MarkSeen("0xaaa:0x0"))
		assert.True(t, seen.MarkSeen("0xaaa:0x1"))
		assert.True(t, seen.MarkSeen("0xbbb:0x0"))
	})

	t.Run("evicts the oldest key once full", func(t *testing.T) {
		seen := newSeenSet(2)

		require.True(t, seen.MarkSeen("first"))
		require.True(t, seen.MarkSeen("second"))
		require.True(t, seen.MarkSeen("third"))

		// "first" fell out of the window and counts as new again.
		assert.True(t, seen.MarkSeen("first"))
		// "third" is still inside the window.
		assert.False(t, seen.MarkSeen("third"))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		seen := newSeenSet(1024)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					if seen.MarkSeen(fmt.Sprintf("key-%d", j)) {
						mu.Lock()
						accepted++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		// Each of the 100 keys is accepted exactly once across all goroutines.
		assert.Equal(t, 100, accepted)
	})
}
