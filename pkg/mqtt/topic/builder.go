package topic

import (
	"fmt"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
// It keeps the topic topology in one place so the gateway and the voice
// frontends cannot drift apart.
type Builder struct {
	// root is the base namespace for all topics (e.g., "voxlink/v1").
	root string
}

// NewBuilder creates a new instance of Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Build constructs the topic for a segment and a concrete vehicle ID.
// Pattern: {root}/{segment}/{vehicleID}
func (b *Builder) Build(segment, vehicleID string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, segment, vehicleID)
}

// BuildWildcard constructs the subscription filter matching all vehicles
// for a segment. Pattern: {root}/{segment}/+
func (b *Builder) BuildWildcard(segment string) string {
	return b.Build(segment, Wildcard)
}

// Shared returns a derived builder whose topics are prefixed with the MQTT
// shared-subscription syntax, so multiple gateway replicas split the load.
// Pattern: $share/{group}/{root}/...
func (b *Builder) Shared(group string) *Builder {
	return &Builder{root: fmt.Sprintf("$share/%s/%s", group, b.root)}
}

// VehicleID extracts the trailing vehicle identifier from a concrete topic
// built by this Builder. It returns "" when the topic has no identifier level.
func VehicleID(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '/' {
			return topic[i+1:]
		}
	}
	return ""
}
