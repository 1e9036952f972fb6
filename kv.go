package statictopic

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/statictopic/internal/kvutil"
	"github.com/arloliu/statictopic/internal/lease"
	"github.com/arloliu/statictopic/publisher"
	"github.com/arloliu/statictopic/source"
)

// NewKVStores opens (creating if needed) the mapping and plan buckets and
// returns a snapshot source and plan publisher over them.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - buckets: Bucket configuration (see Config.KVBuckets)
//   - log: Logger for the source and publisher (nil for no-op)
//   - metrics: Publish metrics (nil for no-op)
//
// Returns:
//   - *source.KV: Snapshot source over the mapping bucket
//   - *publisher.KV: Publisher writing both buckets
//   - error: Bucket creation error
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	src, pub, err := statictopic.NewKVStores(ctx, js, cfg.KVBuckets, logger, collector)
//	p, err := statictopic.NewPlanner(&cfg, src, statictopic.WithPublisher(pub))
func NewKVStores(
	ctx context.Context,
	js jetstream.JetStream,
	buckets KVBucketConfig,
	log Logger,
	metrics MetricsCollector,
) (*source.KV, *publisher.KV, error) {
	mappingKV, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:      buckets.MappingBucket,
		Description: "static topic broker configs",
		History:     buckets.History,
	}, 3)
	if err != nil {
		return nil, nil, fmt.Errorf("mapping bucket: %w", err)
	}

	planKV, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:      buckets.PlanBucket,
		Description: "static topic migration plans",
		History:     buckets.History,
	}, 3)
	if err != nil {
		return nil, nil, fmt.Errorf("plan bucket: %w", err)
	}

	src := source.NewKV(mappingKV, source.WithKVLogger(log))

	pubOpts := []publisher.Option{publisher.WithLogger(log)}
	if metrics != nil {
		pubOpts = append(pubOpts, publisher.WithMetrics(metrics))
	}

	return src, publisher.NewKV(planKV, mappingKV, pubOpts...), nil
}

// NewKVLease opens (creating if needed) the lease bucket and returns a topic
// locker over it, for use with WithTopicLocker.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - buckets: Bucket configuration (LeaseBucket and LeaseTTL are used)
//   - owner: Identity of this planner process, written into held leases
//
// Returns:
//   - TopicLocker: Lease-backed topic locker
//   - error: Bucket creation error
func NewKVLease(ctx context.Context, js jetstream.JetStream, buckets KVBucketConfig, owner string) (TopicLocker, error) {
	leaseKV, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:      buckets.LeaseBucket,
		Description: "static topic planning leases",
		TTL:         buckets.LeaseTTL,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("lease bucket: %w", err)
	}

	return lease.NewNATSLease(leaseKV, owner), nil
}
