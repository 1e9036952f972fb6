// Package testing provides test utilities for the statictopic library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for KV-backed snapshot and plan storage. It follows Go's
// convention of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - SeedTopic: Writes broker topic configs into a mapping bucket
//   - NewTestLogger: types.Logger that writes through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    sttest "github.com/arloliu/statictopic/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := sttest.StartEmbeddedNATS(t)
//	    kv := sttest.CreateJetStreamKV(t, nc, "mappings")
//	    sttest.SeedTopic(t, kv, configs)
//	}
package testing
