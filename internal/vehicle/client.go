package vehicle

import "context"

// CommandType identifies a remote vehicle action.
type CommandType string

const (
	CommandTypeStatus      CommandType = "status"
	CommandTypeClimate     CommandType = "climate"
	CommandTypeLock        CommandType = "lock"
	CommandTypeUnlock      CommandType = "unlock"
	CommandTypeStartCharge CommandType = "startCharge"
	CommandTypeStopCharge  CommandType = "stopCharge"
)

// UpdateFunc is the completion callback for asynchronous command issuance.
// The first invocation is the "first acknowledgement": it means the request
// left the local process, not that the vehicle acted on it. Implementations
// may invoke it again later with isComplete=true carrying the final outcome.
type UpdateFunc func(isComplete bool, didSucceed bool, data any)

// Client is the capability surface the dispatch core requires from a
// regional Bluelink API client. Authentication, cloud polling, and payload
// encoding are the implementation's concern.
type Client interface {
	// Status retrieves the vehicle status. With refresh=true the client asks
	// the cloud to poll the vehicle; with allowCached=true it may fall back
	// to the last-known snapshot when a live read is unavailable.
	Status(ctx context.Context, refresh bool, allowCached bool) (*Status, error)

	// CachedStatus returns the last-known snapshot without suspending.
	// It may be stale; it is nil only before the first successful Status.
	CachedStatus() *Status

	// Config returns the account-level climate configuration.
	Config() Config

	// ProcessRequest issues a command asynchronously. It MUST invoke onUpdate
	// at least once to signal first acknowledgement, and never blocks on the
	// vehicle's physical completion.
	ProcessRequest(ctx context.Context, commandType CommandType, payload any, onUpdate UpdateFunc)
}
