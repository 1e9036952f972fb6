package strategy

import (
	"maps"
	"math/rand/v2"
	"slices"
	"time"
)

// Allocator extends a global queue id → broker assignment, always placing the
// next id on a currently least-loaded broker.
//
// An Allocator is not safe for concurrent use.
type Allocator struct {
	brokerLoad map[string]int
	idToBroker map[int]string

	// leastBrokers is the working pool of brokers tied at the minimum load.
	leastBrokers []string
	currentIndex int

	rnd *rand.Rand
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithAssignment seeds the allocator with an existing partial assignment.
//
// Ids present in the assignment are never reassigned. The assignment is copied.
//
// Parameters:
//   - idToBroker: Existing global queue id → broker assignment
//
// Returns:
//   - AllocatorOption: Configuration option
func WithAssignment(idToBroker map[int]string) AllocatorOption {
	return func(a *Allocator) {
		maps.Copy(a.idToBroker, idToBroker)
	}
}

// WithRand sets the random source used for tie-breaking.
//
// Parameters:
//   - rnd: Random source (nil keeps the default time-seeded source)
//
// Returns:
//   - AllocatorOption: Configuration option
func WithRand(rnd *rand.Rand) AllocatorOption {
	return func(a *Allocator) {
		if rnd != nil {
			a.rnd = rnd
		}
	}
}

// WithSeed makes tie-breaking deterministic.
//
// Parameters:
//   - seed: Seed for a PCG random source
//
// Returns:
//   - AllocatorOption: Configuration option
func WithSeed(seed uint64) AllocatorOption {
	return func(a *Allocator) {
		a.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // tie-breaking only
	}
}

// NewAllocator creates an allocator over the brokers of brokerLoad.
//
// Parameters:
//   - brokerLoad: Starting load per broker; every key is an allocation target
//   - opts: Optional configuration (WithAssignment, WithRand, WithSeed)
//
// Returns:
//   - *Allocator: Initialized allocator
//   - error: ErrNoBrokers when brokerLoad is empty
//
// Example:
//
//	alloc, err := strategy.NewAllocator(
//	    map[string]int{"broker-a": 0, "broker-b": 0},
//	    strategy.WithSeed(42),
//	)
//	alloc.UpToNum(8)
func NewAllocator(brokerLoad map[string]int, opts ...AllocatorOption) (*Allocator, error) {
	if len(brokerLoad) == 0 {
		return nil, ErrNoBrokers
	}

	now := uint64(time.Now().UnixNano()) //nolint:gosec // seed only
	a := &Allocator{
		brokerLoad: maps.Clone(brokerLoad),
		idToBroker: make(map[int]string),
		rnd:        rand.New(rand.NewPCG(now, now>>1)), //nolint:gosec // tie-breaking only
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// UpToNum extends the assignment until it holds target ids.
//
// Each step assigns the lowest unused id to the broker returned by nextBroker
// and increments that broker's load. A target at or below the current size is a no-op.
//
// Parameters:
//   - target: Desired total number of assigned ids
func (a *Allocator) UpToNum(target int) {
	nextID := 0
	for len(a.idToBroker) < target {
		for {
			if _, used := a.idToBroker[nextID]; !used {
				break
			}
			nextID++
		}

		broker := a.nextBroker()
		a.brokerLoad[broker]++
		a.idToBroker[nextID] = broker
	}
}

// BrokerLoad returns a copy of the current load per broker.
func (a *Allocator) BrokerLoad() map[string]int {
	return maps.Clone(a.brokerLoad)
}

// IDToBroker returns a copy of the current id → broker assignment.
func (a *Allocator) IDToBroker() map[int]string {
	return maps.Clone(a.idToBroker)
}

// nextBroker pops one broker from the least-loaded pool, refreshing it when empty.
func (a *Allocator) nextBroker() string {
	if len(a.leastBrokers) == 0 {
		a.refreshPool()
	}

	idx := a.currentIndex % len(a.leastBrokers)
	broker := a.leastBrokers[idx]
	a.leastBrokers = slices.Delete(a.leastBrokers, idx, idx+1)

	return broker
}

// refreshPool collects every broker tied at the minimum load and picks a
// random starting index into the pool.
//
// Brokers are scanned in sorted order so a fixed seed yields a fixed result.
func (a *Allocator) refreshPool() {
	minLoad := -1
	a.leastBrokers = a.leastBrokers[:0]
	for _, broker := range slices.Sorted(maps.Keys(a.brokerLoad)) {
		load := a.brokerLoad[broker]
		switch {
		case minLoad == -1 || load < minLoad:
			minLoad = load
			a.leastBrokers = append(a.leastBrokers[:0], broker)
		case load == minLoad:
			a.leastBrokers = append(a.leastBrokers, broker)
		}
	}
	a.currentIndex = a.rnd.IntN(len(a.leastBrokers))
}
