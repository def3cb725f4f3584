package command

import (
	"context"

	"github.com/looplab/fsm"

	fsmutil "github.com/voxlink-io/voxlink/internal/pkg/util/fsm"
	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
)

// Lifecycle states of a single command issuance.
const (
	// StatePending: constructed, not yet handed to the vehicle client.
	StatePending = "pending"
	// StateSubmitted: handed to the client's asynchronous issuance.
	StateSubmitted = "submitted"
	// StateAcknowledged: the first callback fired within the poll budget.
	StateAcknowledged = "acknowledged"
	// StateExpired: the poll budget ran out without a first acknowledgement.
	StateExpired = "expired"
	// StateConfirmed: the confirmation string was returned to the caller.
	StateConfirmed = "confirmed"
)

// Lifecycle events.
const (
	EventSubmit  = "event_submit"
	EventAck     = "event_ack"
	EventExpire  = "event_expire"
	EventConfirm = "event_confirm"
)

// lifecycle tracks one command issuance through its states. Both terminal
// paths (acknowledged and expired) lead to confirmed: the orchestrator
// confirms submission either way, it never reports vehicle-side completion.
type lifecycle struct {
	*fsm.FSM
}

func newLifecycle(logger log.Logger, commandType vehicle.CommandType) *lifecycle {
	l := &lifecycle{}

	events := fsm.Events{
		{Name: EventSubmit, Src: []string{StatePending}, Dst: StateSubmitted},
		{Name: EventAck, Src: []string{StateSubmitted}, Dst: StateAcknowledged},
		{Name: EventExpire, Src: []string{StateSubmitted}, Dst: StateExpired},
		{Name: EventConfirm, Src: []string{StateAcknowledged, StateExpired}, Dst: StateConfirmed},
	}

	callbacks := fsm.Callbacks{
		"enter_state": fsmutil.WrapEvent(func(ctx context.Context, e *fsm.Event) error {
			logger.Debug("Command lifecycle transition",
				"command", string(commandType), "from", e.Src, "to", e.Dst)
			return nil
		}),
	}

	l.FSM = fsm.NewFSM(StatePending, events, callbacks)
	return l
}

// step fires an event and logs instead of failing: an impossible transition
// here is a programming error, not a reason to break the fire-and-confirm
// contract toward the caller.
func (l *lifecycle) step(ctx context.Context, logger log.Logger, event string) {
	if err := l.Event(ctx, event); err != nil {
		logger.Error(err, "Unexpected lifecycle transition", "event", event, "state", l.Current())
	}
}
