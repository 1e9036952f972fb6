package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arloliu/statictopic/internal/kvutil"
	"github.com/arloliu/statictopic/internal/logger"
	"github.com/arloliu/statictopic/types"
	"github.com/nats-io/nats.go/jetstream"
)

const defaultKVRetries = 3

// KV implements a snapshot source backed by a NATS JetStream KV bucket.
//
// Each broker stores its config for a topic as JSON under "<topic>.<broker>".
type KV struct {
	kv      jetstream.KeyValue
	retries int
	logger  types.Logger
}

var _ types.SnapshotSource = (*KV)(nil)

// KVOption configures a KV source.
type KVOption func(*KV)

// WithKVLogger sets the logger of a KV source.
func WithKVLogger(l types.Logger) KVOption {
	return func(k *KV) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithKVRetries sets how many attempts are made on connectivity errors.
func WithKVRetries(n int) KVOption {
	return func(k *KV) {
		k.retries = n
	}
}

// NewKV creates a snapshot source reading from kv.
//
// Parameters:
//   - kv: Mapping bucket
//   - opts: Optional configuration
//
// Returns:
//   - *KV: Initialized KV source
//
// Example:
//
//	kv, _ := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{Bucket: "statictopic-mappings"}, 3)
//	src := source.NewKV(kv)
//	configs, err := src.LoadTopic(ctx, "orders")
func NewKV(kv jetstream.KeyValue, opts ...KVOption) *KV {
	k := &KV{kv: kv, retries: defaultKVRetries, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(k)
	}

	return k
}

// LoadTopic reads every "<topic>.*" entry of the bucket.
//
// Deleted entries are skipped. A topic with no entries yields an empty map.
//
// Returns:
//   - map[string]*types.BrokerTopicConfig: Configs keyed by broker name
//   - error: ErrSnapshotLoadFailed wrapping the KV or decode error
func (k *KV) LoadTopic(ctx context.Context, topic string) (map[string]*types.BrokerTopicConfig, error) {
	pattern, err := kvutil.TopicPattern(topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSnapshotLoadFailed, err)
	}

	var configs map[string]*types.BrokerTopicConfig
	err = kvutil.Retry(ctx, k.retries, func(ctx context.Context) error {
		var loadErr error
		configs, loadErr = k.load(ctx, topic, pattern)

		return loadErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: topic %s: %w", types.ErrSnapshotLoadFailed, topic, err)
	}

	k.logger.Debug("loaded topic snapshot", "topic", topic, "brokers", len(configs))

	return configs, nil
}

func (k *KV) load(ctx context.Context, topic, pattern string) (map[string]*types.BrokerTopicConfig, error) {
	watcher, err := k.kv.Watch(ctx, pattern, jetstream.IgnoreDeletes())
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", pattern, err)
	}
	defer func() { _ = watcher.Stop() }()

	configs := make(map[string]*types.BrokerTopicConfig)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case entry, ok := <-watcher.Updates():
			if !ok {
				return nil, fmt.Errorf("watcher for %s closed before initial values", pattern)
			}
			// nil marks the end of initial values
			if entry == nil {
				return configs, nil
			}

			broker, cfg, err := decodeEntry(topic, entry)
			if err != nil {
				return nil, err
			}
			configs[broker] = cfg
		}
	}
}

func decodeEntry(topic string, entry jetstream.KeyValueEntry) (string, *types.BrokerTopicConfig, error) {
	keyTopic, broker, ok := kvutil.ParseMappingKey(entry.Key())
	if !ok || keyTopic != topic {
		return "", nil, fmt.Errorf("unexpected key %q", entry.Key())
	}

	var cfg types.BrokerTopicConfig
	if err := json.Unmarshal(entry.Value(), &cfg); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal config %s: %w", entry.Key(), err)
	}

	if cfg.Mapping == nil {
		return "", nil, fmt.Errorf("config %s has no mapping detail", entry.Key())
	}
	if cfg.TopicName == "" {
		cfg.TopicName = topic
	}

	return broker, &cfg, nil
}
