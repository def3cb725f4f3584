package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlink-io/voxlink/internal/pkg/clock"
	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
)

// scriptedClient hands the acknowledgement callback to the test, which
// decides if and when to fire it.
type scriptedClient struct {
	onIssue func(onUpdate vehicle.UpdateFunc)
}

func (s *scriptedClient) Status(context.Context, bool, bool) (*vehicle.Status, error) {
	return nil, nil
}
func (s *scriptedClient) CachedStatus() *vehicle.Status { return nil }
func (s *scriptedClient) Config() vehicle.Config        { return vehicle.Config{} }

func (s *scriptedClient) ProcessRequest(_ context.Context, _ vehicle.CommandType, _ any, onUpdate vehicle.UpdateFunc) {
	if s.onIssue != nil {
		s.onIssue(onUpdate)
	}
}

func TestIssueImmediateAck(t *testing.T) {
	fc := clock.NewFake(time.Now())
	orch := NewOrchestrator(fc, log.NewNopLogger())
	client := &scriptedClient{onIssue: func(onUpdate vehicle.UpdateFunc) {
		onUpdate(false, true, nil)
	}}

	got := orch.Issue(context.Background(), client, vehicle.CommandTypeLock, "Locking your car.", nil)

	assert.Equal(t, "Locking your car.", got, "the confirmation must be returned verbatim")

	// An instant acknowledgement skips all polls, leaving only the pad
	// sleep up to the duration floor.
	require.Len(t, fc.Sleeps(), 1)
	assert.Equal(t, MinIssueDuration, fc.TotalSlept())
}

func TestIssueWithoutAckExhaustsPollBudget(t *testing.T) {
	fc := clock.NewFake(time.Now())
	orch := NewOrchestrator(fc, log.NewNopLogger())
	client := &scriptedClient{} // never acknowledges

	got := orch.Issue(context.Background(), client, vehicle.CommandTypeUnlock, "Un-locking your car.", nil)

	assert.Equal(t, "Un-locking your car.", got,
		"a missing acknowledgement must not change the confirmation")

	// All polls run; their total already exceeds the floor, so no pad.
	require.Len(t, fc.Sleeps(), AckPollAttempts)
	assert.Equal(t, time.Duration(AckPollAttempts)*AckPollInterval, fc.TotalSlept())
}

func TestIssueLateAckStillPadsToFloor(t *testing.T) {
	fc := clock.NewFake(time.Now())
	orch := NewOrchestrator(fc, log.NewNopLogger())

	var ack vehicle.UpdateFunc
	client := &scriptedClient{onIssue: func(onUpdate vehicle.UpdateFunc) {
		ack = onUpdate
	}}

	// Acknowledge after the third poll sleep.
	polls := 0
	fc.OnSleep = func(time.Duration) {
		polls++
		if polls == 3 {
			ack(false, true, nil)
		}
	}

	got := orch.Issue(context.Background(), client, vehicle.CommandTypeClimate, "Warming up.", nil)

	assert.Equal(t, "Warming up.", got)

	// 3 polls plus the pad, and the total never lands below the floor.
	require.Len(t, fc.Sleeps(), 4)
	assert.Equal(t, MinIssueDuration, fc.TotalSlept())
}

func TestIssueNeverReturnsBeforeFloor(t *testing.T) {
	for acksAfter := 0; acksAfter <= AckPollAttempts; acksAfter++ {
		fc := clock.NewFake(time.Now())
		orch := NewOrchestrator(fc, log.NewNopLogger())

		var ack vehicle.UpdateFunc
		client := &scriptedClient{onIssue: func(onUpdate vehicle.UpdateFunc) {
			if acksAfter == 0 {
				onUpdate(false, true, nil)
				return
			}
			ack = onUpdate
		}}

		polls := 0
		fc.OnSleep = func(time.Duration) {
			polls++
			if ack != nil && polls == acksAfter {
				ack(false, true, nil)
			}
		}

		orch.Issue(context.Background(), client, vehicle.CommandTypeLock, "ok", nil)

		assert.GreaterOrEqual(t, fc.TotalSlept(), MinIssueDuration,
			"ack after %d polls returned before the duration floor", acksAfter)
	}
}

func TestPause(t *testing.T) {
	fc := clock.NewFake(time.Now())
	orch := NewOrchestrator(fc, log.NewNopLogger())

	orch.Pause(context.Background(), 2*time.Second)

	assert.Equal(t, []time.Duration{2 * time.Second}, fc.Sleeps())
}

func TestLifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNopLogger()

	lc := newLifecycle(logger, vehicle.CommandTypeLock)
	assert.Equal(t, StatePending, lc.Current())

	lc.step(ctx, logger, EventSubmit)
	assert.Equal(t, StateSubmitted, lc.Current())

	lc.step(ctx, logger, EventAck)
	assert.Equal(t, StateAcknowledged, lc.Current())

	lc.step(ctx, logger, EventConfirm)
	assert.Equal(t, StateConfirmed, lc.Current())

	// The expired path confirms too.
	lc = newLifecycle(logger, vehicle.CommandTypeLock)
	lc.step(ctx, logger, EventSubmit)
	lc.step(ctx, logger, EventExpire)
	assert.Equal(t, StateExpired, lc.Current())
	lc.step(ctx, logger, EventConfirm)
	assert.Equal(t, StateConfirmed, lc.Current())

	// An impossible transition is logged, not fatal; the state holds.
	lc.step(ctx, logger, EventSubmit)
	assert.Equal(t, StateConfirmed, lc.Current())
}
