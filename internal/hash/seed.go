// Package hash derives deterministic values from topic identities using XXH3.
package hash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// AllocatorSeed returns a stable allocator seed for one planning call.
//
// The topic name is hashed first and the epoch is folded in using the topic
// hash as seed, so replanning the same topic from the same epoch repeats the
// same tie-breaks while any epoch change reshuffles them.
//
// Parameters:
//   - topic: Static topic name
//   - epoch: Epoch the plan is computed from
//
// Returns:
//   - uint64: Seed for strategy.WithSeed
//
// Example:
//
//	seed := hash.AllocatorSeed("orders", 1700000000000)
//	alloc, _ := strategy.NewAllocator(load, strategy.WithSeed(seed))
func AllocatorSeed(topic string, epoch int64) uint64 {
	h := xxh3.HashString(topic)

	var eb [8]byte
	binary.LittleEndian.PutUint64(eb[:], uint64(epoch)) //nolint:gosec // bit pattern only

	return xxh3.HashSeed(eb[:], h)
}
