package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// PlanKind identifies the planning algorithm that produced a MigrationPlan.
type PlanKind string

const (
	// PlanCreateOrUpdate adds new global queue ids without moving existing ones.
	PlanCreateOrUpdate PlanKind = "CREATE_OR_UPDATE"

	// PlanRebalance moves existing global queue ids onto a new broker set.
	PlanRebalance PlanKind = "REBALANCE"
)

// String returns the string representation of the plan kind.
func (k PlanKind) String() string {
	return string(k)
}

// MigrationPlan is the declarative output of a planning call.
//
// Configs holds the full per-broker configs after the change. MapIn and MapOut
// are the disjoint, sorted sets of brokers gaining and losing queue ownership.
// A plan is meant to be applied atomically across every listed broker.
type MigrationPlan struct {
	Topic   string                        `json:"topic" yaml:"topic"`
	Kind    PlanKind                      `json:"type" yaml:"type"`
	Epoch   int64                         `json:"epoch" yaml:"epoch"`
	Configs map[string]*BrokerTopicConfig `json:"brokerConfigMap" yaml:"brokerConfigMap"`
	MapIn   []string                      `json:"brokerToMapIn" yaml:"brokerToMapIn"`
	MapOut  []string                      `json:"brokerToMapOut" yaml:"brokerToMapOut"`
}

// NewMigrationPlan builds a plan, sorting the map-in and map-out sets.
func NewMigrationPlan(
	topic string,
	kind PlanKind,
	epoch int64,
	configs map[string]*BrokerTopicConfig,
	mapIn, mapOut []string,
) *MigrationPlan {
	in := slices.Clone(mapIn)
	out := slices.Clone(mapOut)
	slices.Sort(in)
	slices.Sort(out)
	if in == nil {
		in = []string{}
	}
	if out == nil {
		out = []string{}
	}

	return &MigrationPlan{
		Topic:   topic,
		Kind:    kind,
		Epoch:   epoch,
		Configs: configs,
		MapIn:   in,
		MapOut:  out,
	}
}

// Mappings returns the non-nil mappings of the plan's configs.
func (p *MigrationPlan) Mappings() []*TopicMapping {
	out := make([]*TopicMapping, 0, len(p.Configs))
	for _, broker := range SortedBrokers(p.Configs) {
		if m := p.Configs[broker].Mapping; m != nil {
			out = append(out, m)
		}
	}

	return out
}

// Fingerprint returns an xxh3 hash of the plan's canonical JSON encoding.
//
// encoding/json sorts map keys, so two plans with equal content share a fingerprint.
//
// Returns:
//   - uint64: Content hash
//   - error: Encoding error
func (p *MigrationPlan) Fingerprint() (uint64, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to encode plan: %w", err)
	}

	return xxh3.Hash(data), nil
}

// EncodePlanYAML serializes a plan to YAML for operator inspection.
//
// Parameters:
//   - plan: Plan to encode
//
// Returns:
//   - []byte: YAML document
//   - error: Encoding error
func EncodePlanYAML(plan *MigrationPlan) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return nil, fmt.Errorf("failed to encode plan as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode plan as yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodePlanYAML parses a plan previously produced by EncodePlanYAML.
func DecodePlanYAML(data []byte) (*MigrationPlan, error) {
	var plan MigrationPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan yaml: %w", err)
	}

	return &plan, nil
}
