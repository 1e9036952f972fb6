package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/statictopic/internal/kvutil"
	"github.com/arloliu/statictopic/internal/logger"
	"github.com/arloliu/statictopic/internal/metrics"
	"github.com/arloliu/statictopic/types"
	"github.com/nats-io/nats.go/jetstream"
)

// KV publishes plans to NATS JetStream KV.
//
// The plan key is updated with a revision check, so two publishers racing on
// the same topic cannot both store a plan for the same stored revision.
type KV struct {
	planKV    jetstream.KeyValue
	mappingKV jetstream.KeyValue
	retries   int

	mu sync.Mutex

	logger  types.Logger
	metrics types.PublishMetrics
}

var _ types.PlanPublisher = (*KV)(nil)

// Option configures a KV publisher.
type Option func(*KV)

// WithLogger sets the publisher logger.
func WithLogger(l types.Logger) Option {
	return func(p *KV) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the publish metrics collector.
func WithMetrics(m types.PublishMetrics) Option {
	return func(p *KV) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithRetries sets how many attempts each KV write makes on connectivity errors.
func WithRetries(n int) Option {
	return func(p *KV) {
		p.retries = n
	}
}

// NewKV creates a new plan publisher.
//
// Parameters:
//   - planKV: Bucket holding "plan.<topic>" entries
//   - mappingKV: Bucket holding "<topic>.<broker>" configs
//   - opts: Optional configuration
//
// Returns:
//   - *KV: A new publisher instance
func NewKV(planKV, mappingKV jetstream.KeyValue, opts ...Option) *KV {
	p := &KV{
		planKV:    planKV,
		mappingKV: mappingKV,
		retries:   3,
		logger:    logger.NewNop(),
		metrics:   metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish stores plan and writes every config it carries.
//
// A plan identical to the stored one (same fingerprint) is not stored again,
// but its configs are re-written so an interrupted publish can be repaired by
// retrying it.
//
// Parameters:
//   - ctx: Context for cancellation
//   - plan: Plan to publish
//
// Returns:
//   - error: ErrStalePlan if the stored plan has an equal or newer epoch,
//     ErrPublishFailed on KV or encoding failures
func (p *KV) Publish(ctx context.Context, plan *types.MigrationPlan) error {
	start := time.Now()
	err := p.publish(ctx, plan)
	p.metrics.RecordPublish(err == nil, time.Since(start).Seconds())

	return err
}

func (p *KV) publish(ctx context.Context, plan *types.MigrationPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: nil plan", types.ErrPublishFailed)
	}

	key, err := kvutil.PlanKey(plan.Topic)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	fingerprint, err := plan.Fingerprint()
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal plan: %w", types.ErrPublishFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	stored, revision, err := p.latest(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	switch {
	case stored == nil:
		err = p.retry(ctx, func(ctx context.Context) error {
			_, createErr := p.planKV.Create(ctx, key, data)
			return createErr
		})
	case stored.Epoch >= plan.Epoch:
		storedFingerprint, fpErr := stored.Fingerprint()
		if fpErr != nil || storedFingerprint != fingerprint {
			return fmt.Errorf("%w: topic %s epoch %d, stored %d", types.ErrStalePlan, plan.Topic, plan.Epoch, stored.Epoch)
		}
		p.logger.Debug("plan already stored, rewriting configs", "topic", plan.Topic, "epoch", plan.Epoch)
	default:
		err = p.retry(ctx, func(ctx context.Context) error {
			_, updateErr := p.planKV.Update(ctx, key, data, revision)
			return updateErr
		})
	}
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return fmt.Errorf("%w: topic %s changed concurrently: %w", types.ErrStalePlan, plan.Topic, err)
		}

		return fmt.Errorf("%w: failed to store plan %s: %w", types.ErrPublishFailed, key, err)
	}

	for _, broker := range types.SortedBrokers(plan.Configs) {
		if err := p.putConfig(ctx, plan.Topic, broker, plan.Configs[broker]); err != nil {
			return err
		}
	}

	p.logger.Info("plan published",
		"topic", plan.Topic,
		"kind", plan.Kind,
		"epoch", plan.Epoch,
		"brokers", len(plan.Configs))

	return nil
}

func (p *KV) putConfig(ctx context.Context, topic, broker string, cfg *types.BrokerTopicConfig) error {
	key, err := kvutil.MappingKey(topic, broker)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal config %s: %w", types.ErrPublishFailed, key, err)
	}

	p.logger.Debug("publishing broker config", "key", key, "write_queues", cfg.WriteQueueNums)
	err = p.retry(ctx, func(ctx context.Context) error {
		_, putErr := p.mappingKV.Put(ctx, key, data)
		return putErr
	})
	if err != nil {
		return fmt.Errorf("%w: failed to publish config %s: %w", types.ErrPublishFailed, key, err)
	}

	return nil
}

// Latest returns the stored plan of topic.
//
// Returns:
//   - *types.MigrationPlan: Stored plan, nil when none exists
//   - error: KV or decode error
func (p *KV) Latest(ctx context.Context, topic string) (*types.MigrationPlan, error) {
	key, err := kvutil.PlanKey(topic)
	if err != nil {
		return nil, err
	}

	plan, _, err := p.latest(ctx, key)

	return plan, err
}

func (p *KV) latest(ctx context.Context, key string) (*types.MigrationPlan, uint64, error) {
	var entry jetstream.KeyValueEntry
	err := p.retry(ctx, func(ctx context.Context) error {
		var getErr error
		entry, getErr = p.planKV.Get(ctx, key)

		return getErr
	})
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var plan types.MigrationPlan
	if err := json.Unmarshal(entry.Value(), &plan); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal plan %s: %w", key, err)
	}

	return &plan, entry.Revision(), nil
}

func (p *KV) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	return kvutil.Retry(ctx, p.retries, fn)
}
