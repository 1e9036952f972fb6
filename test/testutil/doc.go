// Package testutil provides shared assertion helpers for integration tests.
//
// Note: For NATS server setup, use the github.com/arloliu/statictopic/testing package.
// This package is specifically for integration test scenarios and helper utilities.
package testutil
