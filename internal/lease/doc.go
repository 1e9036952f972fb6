// Package lease implements cross-process topic locks on a NATS JetStream KV bucket.
//
// Each lock is one key "lease.<topic>" whose value names the holder. A lock is
// acquired with an atomic Create and released with a Delete guarded by the
// revision the holder created, so a holder never deletes a lease that has
// expired and been taken over.
//
// Lease expiry is enforced by the bucket's TTL: a crashed planner's lease
// disappears after the TTL and the topic can be locked again.
//
// # Usage
//
//	kv, _ := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
//	    Bucket: "statictopic-leases",
//	    TTL:    30 * time.Second,
//	})
//	leases := lease.NewNATSLease(kv, "planner-1")
//	release, err := leases.Lock(ctx, "orders")
//	if errors.Is(err, types.ErrTopicLocked) {
//	    // another planner is working on orders
//	}
//	defer release(ctx)
package lease
