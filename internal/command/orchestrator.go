package command

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/voxlink-io/voxlink/internal/pkg/clock"
	"github.com/voxlink-io/voxlink/internal/pkg/metrics"
	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
)

const (
	// AckPollInterval is the fixed sleep between checks for the first
	// acknowledgement callback.
	AckPollInterval = 500 * time.Millisecond

	// AckPollAttempts bounds the number of polls, capping the worst-case
	// acknowledgement wait at AckPollAttempts * AckPollInterval.
	AckPollAttempts = 10

	// MinIssueDuration is the floor on total Issue time. The Bluelink
	// transport may transparently re-authenticate before the command is
	// truly dispatched; returning earlier would confirm a command the
	// transport has not had a realistic chance to send.
	MinIssueDuration = 3 * time.Second
)

// Orchestrator issues stateful vehicle commands and shapes their timing:
// it waits a bounded window for the first acknowledgement, then pads the
// call out to a minimum duration before confirming.
type Orchestrator struct {
	clock  clock.Clock
	logger log.Logger
}

// NewOrchestrator creates an Orchestrator. A nil clock selects the real one.
func NewOrchestrator(c clock.Clock, logger log.Logger) *Orchestrator {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = log.Std()
	}
	return &Orchestrator{clock: c, logger: logger.WithName("orchestrator")}
}

// ackSignal is the single cross-goroutine flag between the client callback
// (single writer, set at most once meaningfully) and the poll loop.
type ackSignal struct {
	fired atomic.Bool
}

func (s *ackSignal) Signal()     { s.fired.Store(true) }
func (s *ackSignal) Fired() bool { return s.fired.Load() }

// Issue submits one command through the client's asynchronous issuance and
// returns the pre-composed confirmation verbatim. The contract is
// "submission acknowledged", deliberately not "vehicle acted": physical
// actuation can take minutes and is observed out of band via status queries.
//
// Issue never fails. An acknowledgement that never arrives simply exhausts
// the poll budget; the confirmation is returned regardless.
//
// Concurrent Issue calls for the same vehicle are not serialized. A second
// command arriving while the first one's duration floor is still pending
// races against the same underlying session; callers accept that.
func (o *Orchestrator) Issue(ctx context.Context, client vehicle.Client, commandType vehicle.CommandType, confirmation string, payload any) string {
	start := o.clock.Now()
	lc := newLifecycle(o.logger, commandType)
	sig := &ackSignal{}

	client.ProcessRequest(ctx, commandType, payload, func(isComplete, didSucceed bool, data any) {
		sig.Signal()
		if isComplete {
			// Final completion is informational only; it is not awaited.
			o.logger.Debug("Command reached final state",
				"command", string(commandType), "succeeded", didSucceed)
		}
	})
	lc.step(ctx, o.logger, EventSubmit)

	if o.waitFirstSignal(ctx, sig, AckPollAttempts, AckPollInterval) {
		lc.step(ctx, o.logger, EventAck)
		metrics.CommandAckTotal.WithLabelValues("acknowledged").Inc()
	} else {
		lc.step(ctx, o.logger, EventExpire)
		metrics.CommandAckTotal.WithLabelValues("expired").Inc()
		o.logger.Warn("No first acknowledgement within poll budget",
			"command", string(commandType))
	}

	if elapsed := o.clock.Now().Sub(start); elapsed < MinIssueDuration {
		o.clock.Sleep(ctx, MinIssueDuration-elapsed)
	}

	lc.step(ctx, o.logger, EventConfirm)
	metrics.CommandIssueDuration.WithLabelValues(string(commandType)).
		Observe(o.clock.Now().Sub(start).Seconds())

	return confirmation
}

// waitFirstSignal polls sig with fixed-interval sleeps until it fires or the
// attempt budget is exhausted, whichever comes first. It reports whether the
// signal fired.
func (o *Orchestrator) waitFirstSignal(ctx context.Context, sig *ackSignal, attempts int, interval time.Duration) bool {
	for i := 0; i < attempts; i++ {
		if sig.Fired() {
			return true
		}
		o.clock.Sleep(ctx, interval)
	}
	return sig.Fired()
}

// Pause exposes the orchestrator's cooperative sleep to handlers that need
// fixed grace delays (e.g. letting a fire-and-forget refresh leave the
// process) without reaching for the time package directly.
func (o *Orchestrator) Pause(ctx context.Context, d time.Duration) {
	o.clock.Sleep(ctx, d)
}
