package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyed(t *testing.T) {
	t.Run("same key is exclusive", func(t *testing.T) {
		var k Keyed
		key := Key("alice", "demo", "master")

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			inside  int
			maxSeen int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()

				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
			}()
		}
		wg.Wait()

		require.Equal(t, 1, maxSeen)
		require.Zero(t, k.Len())
	})

	t.Run("different keys do not block", func(t *testing.T) {
		var k Keyed
		unlockA := k.Lock(Key("alice", "demo", "master"))
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlock := k.Lock(Key("alice", "demo", "dev"))
			unlock()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock on another key blocked")
		}
	})

	t.Run("unlock is idempotent", func(t *testing.T) {
		var k Keyed
		unlock := k.Lock("x")
		require.Equal(t, 1, k.Len())
		unlock()
		unlock()
		require.Zero(t, k.Len())

		// still usable
		k.Lock("x")()
	})

	t.Run("key parts do not collide", func(t *testing.T) {
		require.NotEqual(t, Key("a/b", "c"), Key("a", "b/c"))
	})
}
