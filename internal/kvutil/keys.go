package kvutil

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// PlanKeyPrefix prefixes the key of a stored migration plan.
	PlanKeyPrefix = "plan."

	// LeaseKeyPrefix prefixes the key of a topic lease.
	LeaseKeyPrefix = "lease."
)

// ErrInvalidKey is returned when a topic or broker name cannot be used as a KV key token.
var ErrInvalidKey = errors.New("invalid KV key token")

// ValidateToken reports whether s can be used as one dot-free KV key token.
//
// NATS KV keys allow letters, digits and the characters '-', '_', '=' and '/'.
func ValidateToken(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '=', r == '/':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidKey, s, r)
		}
	}

	return nil
}

// MappingKey returns the key of one broker's config for a topic: "<topic>.<broker>".
func MappingKey(topic, broker string) (string, error) {
	if err := ValidateToken(topic); err != nil {
		return "", err
	}
	if err := ValidateToken(broker); err != nil {
		return "", err
	}

	return topic + "." + broker, nil
}

// TopicPattern returns the watch/list pattern matching every broker key of topic.
func TopicPattern(topic string) (string, error) {
	if err := ValidateToken(topic); err != nil {
		return "", err
	}

	return topic + ".*", nil
}

// ParseMappingKey splits a mapping key into topic and broker.
func ParseMappingKey(key string) (topic, broker string, ok bool) {
	topic, broker, ok = strings.Cut(key, ".")
	if !ok || topic == "" || broker == "" || strings.Contains(broker, ".") {
		return "", "", false
	}

	return topic, broker, true
}

// PlanKey returns the key of the stored plan for topic: "plan.<topic>".
func PlanKey(topic string) (string, error) {
	if err := ValidateToken(topic); err != nil {
		return "", err
	}

	return PlanKeyPrefix + topic, nil
}

// LeaseKey returns the key of topic's planning lease: "lease.<topic>".
func LeaseKey(topic string) (string, error) {
	if err := ValidateToken(topic); err != nil {
		return "", err
	}

	return LeaseKeyPrefix + topic, nil
}
