package statictopic

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/statictopic/types"
)

// KVBucketConfig configures NATS JetStream KV bucket names.
type KVBucketConfig struct {
	// MappingBucket holds per-broker configs under "<topic>.<broker>".
	MappingBucket string `yaml:"mappingBucket"`

	// PlanBucket holds the last published plan of each topic under "plan.<topic>".
	PlanBucket string `yaml:"planBucket"`

	// LeaseBucket holds cross-process topic leases under "lease.<topic>".
	LeaseBucket string `yaml:"leaseBucket"`

	// LeaseTTL is how long an abandoned lease blocks its topic.
	// Default: 30 seconds.
	LeaseTTL time.Duration `yaml:"leaseTTL"`

	// History is the number of revisions kept per key (1-64).
	History uint8 `yaml:"history"`
}

// Config is the configuration for the Planner.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// EpochStep is the minimum epoch increase of a plan over the state it was computed from.
	// A plan's epoch is max(observed epoch + EpochStep, now in milliseconds).
	// Default: 1000.
	EpochStep int64 `yaml:"epochStep"`

	// OperationTimeout bounds snapshot loading and plan publishing of one planning call.
	// Default: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// DisableVerify skips re-validating every computed plan before it is returned.
	DisableVerify bool `yaml:"disableVerify"`

	// DeterministicSeeds derives the allocator seed from topic and epoch instead of
	// the clock, so replanning the same state yields the same plan.
	DeterministicSeeds bool `yaml:"deterministicSeeds"`

	// KVBuckets controls NATS JetStream KV bucket configuration.
	KVBuckets KVBucketConfig `yaml:"kvBuckets"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		EpochStep:        1000,
		OperationTimeout: 10 * time.Second,
		KVBuckets: KVBucketConfig{
			MappingBucket: "statictopic-mappings",
			PlanBucket:    "statictopic-plans",
			LeaseBucket:   "statictopic-leases",
			LeaseTTL:      30 * time.Second,
			History:       5,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.EpochStep == 0 {
		cfg.EpochStep = defaults.EpochStep
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.KVBuckets.MappingBucket == "" {
		cfg.KVBuckets.MappingBucket = defaults.KVBuckets.MappingBucket
	}
	if cfg.KVBuckets.PlanBucket == "" {
		cfg.KVBuckets.PlanBucket = defaults.KVBuckets.PlanBucket
	}
	if cfg.KVBuckets.LeaseBucket == "" {
		cfg.KVBuckets.LeaseBucket = defaults.KVBuckets.LeaseBucket
	}
	if cfg.KVBuckets.LeaseTTL == 0 {
		cfg.KVBuckets.LeaseTTL = defaults.KVBuckets.LeaseTTL
	}
	if cfg.KVBuckets.History == 0 {
		cfg.KVBuckets.History = defaults.KVBuckets.History
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - EpochStep > 0
//   - OperationTimeout > 0
//   - MappingBucket, PlanBucket and LeaseBucket are set and pairwise distinct
//   - LeaseTTL > 0
//   - History <= 64 (JetStream KV limit)
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if cfg.EpochStep <= 0 {
		return fmt.Errorf("%w: EpochStep must be > 0, got %d", types.ErrInvalidConfig, cfg.EpochStep)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v", types.ErrInvalidConfig, cfg.OperationTimeout)
	}

	b := cfg.KVBuckets
	if b.MappingBucket == "" || b.PlanBucket == "" || b.LeaseBucket == "" {
		return fmt.Errorf("%w: KV bucket names must not be empty", types.ErrInvalidConfig)
	}

	if b.MappingBucket == b.PlanBucket || b.MappingBucket == b.LeaseBucket || b.PlanBucket == b.LeaseBucket {
		return fmt.Errorf("%w: KV bucket names must differ, got %q, %q and %q",
			types.ErrInvalidConfig, b.MappingBucket, b.PlanBucket, b.LeaseBucket)
	}

	if b.LeaseTTL <= 0 {
		return fmt.Errorf("%w: LeaseTTL must be > 0, got %v", types.ErrInvalidConfig, b.LeaseTTL)
	}

	if cfg.KVBuckets.History > 64 {
		return fmt.Errorf("%w: KV history must be <= 64, got %d", types.ErrInvalidConfig, cfg.KVBuckets.History)
	}

	return nil
}

// ValidateWithWarnings validates the config and logs warnings for legal but risky values.
//
// Parameters:
//   - logger: Logger receiving the warnings
func (cfg *Config) ValidateWithWarnings(logger types.Logger) {
	if cfg.EpochStep < 1000 {
		logger.Warn("epoch step below 1000 leaves little room between planners",
			"epochStep", cfg.EpochStep)
	}

	if cfg.KVBuckets.LeaseTTL < cfg.OperationTimeout {
		logger.Warn("lease TTL shorter than operation timeout, a slow plan may lose its topic lease",
			"leaseTTL", cfg.KVBuckets.LeaseTTL,
			"operationTimeout", cfg.OperationTimeout)
	}

	if cfg.DisableVerify {
		logger.Warn("plan verification disabled, faulty plans will not be caught before publishing")
	}
}

// ParseConfig decodes a YAML document into a Config and applies defaults.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - Config: Decoded configuration with defaults filled in
//   - error: Decode or validation error
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data)
}
