package lease

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/statictopic/internal/kvutil"
	"github.com/arloliu/statictopic/types"
)

// Common errors for lease operations.
var (
	ErrNotHeld      = errors.New("lease not held")
	ErrInvalidOwner = errors.New("invalid lease owner")
)

// NATSLease implements TopicLocker using a NATS KV bucket.
//
// Uses atomic KV operations:
//   - Create (atomic): Acquire the lease if the key doesn't exist
//   - Delete (with last revision): Release only the lease we created
//
// All fields are protected by mu for thread-safe concurrent access.
type NATSLease struct {
	kv    jetstream.KeyValue
	owner string

	mu   sync.Mutex
	held map[string]uint64 // topic -> revision
}

// Compile-time assertion that NATSLease implements TopicLocker.
var _ types.TopicLocker = (*NATSLease)(nil)

// NewNATSLease creates a new NATS KV-based topic lease.
//
// The KV bucket should be configured with a TTL longer than the slowest
// planning call, so a live holder never loses its lease mid-plan.
//
// Parameters:
//   - kv: JetStream KV bucket for lease coordination
//   - owner: Identity written into held leases (e.g., hostname)
//
// Returns:
//   - *NATSLease: New lease instance
func NewNATSLease(kv jetstream.KeyValue, owner string) *NATSLease {
	return &NATSLease{
		kv:    kv,
		owner: owner,
		held:  make(map[string]uint64),
	}
}

// Lock acquires the lease of topic.
//
// Parameters:
//   - ctx: Context for timeout
//   - topic: Static topic name
//
// Returns:
//   - func(context.Context) error: Releases the lease
//   - error: types.ErrTopicLocked if the lease is held, KV error otherwise
func (l *NATSLease) Lock(ctx context.Context, topic string) (func(context.Context) error, error) {
	if l.owner == "" {
		return nil, ErrInvalidOwner
	}

	key, err := kvutil.LeaseKey(topic)
	if err != nil {
		return nil, err
	}

	value := []byte(fmt.Sprintf("%s:%d", l.owner, time.Now().UnixMilli()))

	revision, err := l.kv.Create(ctx, key, value)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			holder, _ := l.Holder(ctx, topic)
			return nil, fmt.Errorf("%w: %s held by %q", types.ErrTopicLocked, topic, holder)
		}

		return nil, fmt.Errorf("failed to create lease key: %w", err)
	}

	l.mu.Lock()
	l.held[topic] = revision
	l.mu.Unlock()

	return func(ctx context.Context) error {
		return l.release(ctx, topic, key)
	}, nil
}

// Holder returns the owner of topic's lease, or "" when nobody holds it.
func (l *NATSLease) Holder(ctx context.Context, topic string) (string, error) {
	key, err := kvutil.LeaseKey(topic)
	if err != nil {
		return "", err
	}

	entry, err := l.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return "", nil
		}

		return "", fmt.Errorf("failed to get lease key: %w", err)
	}

	owner, _ := parseValue(entry.Value())

	return owner, nil
}

// Held reports whether this instance holds topic's lease.
func (l *NATSLease) Held(topic string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[topic]

	return ok
}

func (l *NATSLease) release(ctx context.Context, topic, key string) error {
	l.mu.Lock()
	revision, ok := l.held[topic]
	delete(l.held, topic)
	l.mu.Unlock()

	if !ok {
		return ErrNotHeld
	}

	err := l.kv.Delete(ctx, key, jetstream.LastRevision(revision))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		// The lease expired and someone else created it again.
		if errors.Is(err, jetstream.ErrKeyExists) {
			return fmt.Errorf("%w: %s", ErrNotHeld, topic)
		}

		return fmt.Errorf("failed to delete lease key: %w", err)
	}

	return nil
}

// parseValue splits "<owner>:<unix ms>".
func parseValue(value []byte) (owner string, acquiredMs int64) {
	s := string(value)
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, 0
	}

	ms, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return s, 0
	}

	return s[:i], ms
}
