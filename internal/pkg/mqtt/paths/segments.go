package paths

// Topic segments for the Voxlink gateway protocol.
// These constants define the routing contract between voice frontends and
// the gateway; changing them breaks deployed frontends.

// Upstream: frontend -> gateway.
const (
	// Utterance carries the raw free-text phrase to resolve.
	// Payload: UTF-8 text. Pattern: {root}/utterance/{vehicleID}
	Utterance = "utterance"
)

// Downstream: gateway -> frontend.
const (
	// Reply carries the spoken confirmation or fallback.
	// Payload: UTF-8 text. Pattern: {root}/reply/{vehicleID}
	Reply = "reply"
)

// GroupGateway is the shared-subscription group name, so multiple gateway
// replicas split the utterance stream instead of all answering.
const GroupGateway = "voxlink-gateway"
