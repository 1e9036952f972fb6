package statictopic

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/statictopic/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, int64(1000), cfg.EpochStep)
	require.Equal(t, 10*time.Second, cfg.OperationTimeout)
	require.False(t, cfg.DisableVerify)
	require.False(t, cfg.DeterministicSeeds)
	require.Equal(t, "statictopic-mappings", cfg.KVBuckets.MappingBucket)
	require.Equal(t, "statictopic-plans", cfg.KVBuckets.PlanBucket)
	require.Equal(t, "statictopic-leases", cfg.KVBuckets.LeaseBucket)
	require.Equal(t, 30*time.Second, cfg.KVBuckets.LeaseTTL)
	require.Equal(t, uint8(5), cfg.KVBuckets.History)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			EpochStep:          5000,
			OperationTimeout:   3 * time.Second,
			DisableVerify:      true,
			DeterministicSeeds: true,
			KVBuckets: KVBucketConfig{
				MappingBucket: "m",
				PlanBucket:    "p",
				LeaseBucket:   "l",
				LeaseTTL:      time.Minute,
				History:       10,
			},
		}
		expected := cfg
		SetDefaults(&cfg)

		require.Equal(t, expected, cfg)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative epoch step", func(c *Config) { c.EpochStep = -1 }},
		{"zero timeout", func(c *Config) { c.OperationTimeout = 0 }},
		{"empty bucket", func(c *Config) { c.KVBuckets.PlanBucket = "" }},
		{"same bucket", func(c *Config) { c.KVBuckets.PlanBucket = c.KVBuckets.MappingBucket }},
		{"lease bucket reused", func(c *Config) { c.KVBuckets.LeaseBucket = c.KVBuckets.PlanBucket }},
		{"negative lease ttl", func(c *Config) { c.KVBuckets.LeaseTTL = -time.Second }},
		{"history too large", func(c *Config) { c.KVBuckets.History = 65 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, types.ErrInvalidConfig)
		})
	}
}

// TestConfig_YAML demonstrates that time.Duration works directly with YAML unmarshaling
func TestConfig_YAML(t *testing.T) {
	yamlConfig := `
epochStep: 2000
operationTimeout: 15s
disableVerify: true
deterministicSeeds: true
kvBuckets:
  mappingBucket: "orders-mappings"
  planBucket: "orders-plans"
  history: 8
`

	var cfg Config
	err := yaml.Unmarshal([]byte(yamlConfig), &cfg)
	require.NoError(t, err)

	require.Equal(t, int64(2000), cfg.EpochStep)
	require.Equal(t, 15*time.Second, cfg.OperationTimeout)
	require.True(t, cfg.DisableVerify)
	require.True(t, cfg.DeterministicSeeds)
	require.Equal(t, "orders-mappings", cfg.KVBuckets.MappingBucket)
	require.Equal(t, "orders-plans", cfg.KVBuckets.PlanBucket)
	require.Equal(t, uint8(8), cfg.KVBuckets.History)
}

func TestParseConfig(t *testing.T) {
	t.Run("partial yaml gets defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("epochStep: 3000\n"))
		require.NoError(t, err)

		require.Equal(t, int64(3000), cfg.EpochStep)
		require.Equal(t, 10*time.Second, cfg.OperationTimeout)
		require.Equal(t, "statictopic-plans", cfg.KVBuckets.PlanBucket)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseConfig([]byte("epochStep: [oops"))
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := ParseConfig([]byte("epochStep: -5\n"))
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statictopic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operationTimeout: 2s\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.OperationTimeout)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
