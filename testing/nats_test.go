package testing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/statictopic/types"
)

func TestStartEmbeddedNATS(t *testing.T) {
	ns, nc := StartEmbeddedNATS(t)

	require.NotNil(t, ns)
	require.NotNil(t, nc)
	require.True(t, nc.IsConnected())
	require.True(t, ns.ReadyForConnections(1*time.Second))
}

// TestStartEmbeddedNATS_ParallelTests verifies parallel test execution.
func TestStartEmbeddedNATS_ParallelTests(t *testing.T) {
	t.Parallel()

	for range 3 {
		t.Run("parallel", func(t *testing.T) {
			t.Parallel()

			_, nc := StartEmbeddedNATS(t)
			require.True(t, nc.IsConnected())
		})
	}
}

func TestCreateJetStreamKV_Isolation(t *testing.T) {
	ctx := t.Context()
	_, nc := StartEmbeddedNATS(t)

	kv1 := CreateJetStreamKV(t, nc, "bucket-1")
	kv2 := CreateJetStreamKV(t, nc, "bucket-2")

	_, err := kv1.Put(ctx, "key", []byte("value1"))
	require.NoError(t, err)
	_, err = kv2.Put(ctx, "key", []byte("value2"))
	require.NoError(t, err)

	entry1, err := kv1.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("value1"), entry1.Value())

	entry2, err := kv2.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("value2"), entry2.Value())
}

func TestSeedTopic(t *testing.T) {
	ctx := t.Context()
	_, nc := StartEmbeddedNATS(t)
	kv := CreateJetStreamKV(t, nc, "mappings")

	cfg := types.NewBrokerTopicConfig("orders", "broker-a")
	cfg.AddQueueSlot()
	SeedTopic(t, kv, map[string]*types.BrokerTopicConfig{"broker-a": cfg})

	entry, err := kv.Get(ctx, "orders.broker-a")
	require.NoError(t, err)

	var got types.BrokerTopicConfig
	require.NoError(t, json.Unmarshal(entry.Value(), &got))
	require.Equal(t, 1, got.WriteQueueNums)
	require.Equal(t, "broker-a", got.Mapping.Broker)
}
