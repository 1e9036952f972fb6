// Package statictopic plans the placement of static topic queues across brokers.
//
// A static topic has a fixed number of global queue ids. Each id is served by
// one broker at a time; its history is an append-only sequence of mapping
// items, one per broker that has led it. Every broker stores its view of the
// topic as a BrokerTopicConfig. The planner reads those views, checks that they
// agree, and computes migration plans that create, expand, or rebalance the topic
// without ever rewriting committed history.
//
// # Quick Start
//
//	import (
//	    "github.com/arloliu/statictopic"
//	    "github.com/arloliu/statictopic/source"
//	)
//
//	cfg := statictopic.DefaultConfig()
//	src := source.NewStatic()
//
//	p, err := statictopic.NewPlanner(&cfg, src, statictopic.WithPublisher(src))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plan, err := p.CreateOrExpand(ctx, "orders", 8, []string{"broker-a", "broker-b"})
//	plan, err = p.Rebalance(ctx, "orders", []string{"broker-a", "broker-b", "broker-c"})
//
// # Epochs
//
// Every plan carries an epoch of max(observed epoch + EpochStep, now in ms).
// Brokers and publishers reject plans whose epoch is not newer than the one
// they hold, which fences out planners working from stale state.
//
// # Rebalancing
//
// A rebalance keeps each id on its current leader while that broker is a target
// with quota left, then hands the remaining ids to brokers below their quota.
// A moved id gains one new item on the receiving broker; the item is written to
// both the receiving and the losing broker so either side can serve reads from
// the old range while the move completes.
//
// # Storage
//
// source.KV and publisher.KV keep configs and plans in NATS JetStream KV
// buckets; NewKVStores opens both. source.Static keeps them in memory.
//
// # Multiple Planners
//
// Calls for one topic are serialized within a Planner. To serialize planners
// running in different processes, pass a lease-backed locker:
//
//	locker, err := statictopic.NewKVLease(ctx, js, cfg.KVBuckets, hostname)
//	p, err := statictopic.NewPlanner(&cfg, src,
//	    statictopic.WithPublisher(pub),
//	    statictopic.WithTopicLocker(locker),
//	)
//
// A topic locked by another planner fails fast with ErrTopicLocked.
//
// See the examples/ directory for complete working examples.
package statictopic
