package kvutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappingKey(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		key, err := MappingKey("orders", "broker-a")
		require.NoError(t, err)
		require.Equal(t, "orders.broker-a", key)

		topic, broker, ok := ParseMappingKey(key)
		require.True(t, ok)
		require.Equal(t, "orders", topic)
		require.Equal(t, "broker-a", broker)
	})

	t.Run("rejects dots and wildcards", func(t *testing.T) {
		for _, bad := range []string{"", "a.b", "a*", "a>", "a b"} {
			_, err := MappingKey("orders", bad)
			require.ErrorIs(t, err, ErrInvalidKey, "broker %q", bad)
			_, err = MappingKey(bad, "b")
			require.ErrorIs(t, err, ErrInvalidKey, "topic %q", bad)
		}
	})
}

func TestParseMappingKey_Malformed(t *testing.T) {
	for _, key := range []string{"orders", ".b", "orders.", "orders.a.b"} {
		_, _, ok := ParseMappingKey(key)
		require.False(t, ok, key)
	}
}

func TestPlanKeyAndPattern(t *testing.T) {
	key, err := PlanKey("orders")
	require.NoError(t, err)
	require.Equal(t, "plan.orders", key)

	pattern, err := TopicPattern("orders")
	require.NoError(t, err)
	require.Equal(t, "orders.*", pattern)

	_, err = PlanKey("bad.topic")
	require.ErrorIs(t, err, ErrInvalidKey)

	key, err = LeaseKey("orders")
	require.NoError(t, err)
	require.Equal(t, "lease.orders", key)

	_, err = LeaseKey("")
	require.ErrorIs(t, err, ErrInvalidKey)
}
