package kvutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	sttest "github.com/arloliu/statictopic/testing"
)

// TestEnsureKVBucketWithRetry tests the bucket creation helper against an embedded server.
func TestEnsureKVBucketWithRetry(t *testing.T) {
	_, nc := sttest.StartEmbeddedNATS(t)

	ctx := context.Background()
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("successful creation on first try", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{
			Bucket:  "test-mappings-1",
			History: 5,
		}

		kv, err := EnsureKVBucketWithRetry(ctx, js, cfg, 3)
		require.NoError(t, err)
		require.NotNil(t, kv)
	})

	t.Run("bucket exists - should open it", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{
			Bucket:  "test-mappings-2",
			History: 5,
		}

		kv1, err := js.CreateKeyValue(ctx, cfg)
		require.NoError(t, err)
		require.NotNil(t, kv1)

		kv2, err := EnsureKVBucketWithRetry(ctx, js, cfg, 3)
		require.NoError(t, err)
		require.NotNil(t, kv2)
	})

	t.Run("concurrent creates - 10 planners", func(t *testing.T) {
		numWorkers := 10
		cfg := jetstream.KeyValueConfig{
			Bucket:  "test-mappings-3",
			History: 5,
		}

		var wg sync.WaitGroup
		errs := make(chan error, numWorkers)
		kvs := make([]jetstream.KeyValue, numWorkers)

		for i := 0; i < numWorkers; i++ {
			wg.Add(1) //nolint:revive // Standard pattern for concurrent operations
			go func(idx int) {
				defer wg.Done()

				kv, err := EnsureKVBucketWithRetry(ctx, js, cfg, 5)
				if err != nil {
					errs <- err
					return
				}
				kvs[idx] = kv
			}(i)
		}

		wg.Wait()
		close(errs)

		var errList []error
		for err := range errs {
			errList = append(errList, err)
		}
		require.Empty(t, errList)

		for i, kv := range kvs {
			require.NotNil(t, kv, "planner %d should have valid KV instance", i)
		}
	})

	t.Run("context timeout - should fail gracefully", func(t *testing.T) {
		shortCtx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
		defer cancel()

		time.Sleep(1 * time.Millisecond)

		cfg := jetstream.KeyValueConfig{
			Bucket:  "test-mappings-4",
			History: 1,
		}

		_, err := EnsureKVBucketWithRetry(shortCtx, js, cfg, 3)
		require.Error(t, err)
		require.Contains(t, err.Error(), "context")
	})
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries connectivity errors", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, func(context.Context) error {
			calls++
			if calls < 3 {
				return nats.ErrTimeout
			}

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("stops on other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := Retry(ctx, 5, func(context.Context) error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, func(context.Context) error {
			calls++
			return nats.ErrNoServers
		})
		require.ErrorIs(t, err, nats.ErrNoServers)
		require.Equal(t, 2, calls)
	})
}
