package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlink-io/voxlink/internal/command"
	"github.com/voxlink-io/voxlink/internal/pkg/clock"
	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
)

type issuedCommand struct {
	commandType vehicle.CommandType
	payload     any
}

// fakeClient is an in-memory vehicle.Client that records what the handlers
// ask of it and acknowledges every command immediately.
type fakeClient struct {
	mu        sync.Mutex
	status    *vehicle.Status
	statusErr error
	cfg       vehicle.Config
	issued    []issuedCommand
	refreshes int
}

func (f *fakeClient) Status(_ context.Context, refresh, _ bool) (*vehicle.Status, error) {
	f.mu.Lock()
	if refresh {
		f.refreshes++
	}
	f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeClient) CachedStatus() *vehicle.Status { return f.status }

func (f *fakeClient) Config() vehicle.Config { return f.cfg }

func (f *fakeClient) ProcessRequest(_ context.Context, commandType vehicle.CommandType, payload any, onUpdate vehicle.UpdateFunc) {
	f.mu.Lock()
	f.issued = append(f.issued, issuedCommand{commandType, payload})
	f.mu.Unlock()
	onUpdate(false, true, nil)
}

func (f *fakeClient) issuedCommands() []issuedCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]issuedCommand, len(f.issued))
	copy(out, f.issued)
	return out
}

func newTestDispatcher(client *fakeClient, presets PresetSource) *Dispatcher {
	orch := command.NewOrchestrator(clock.NewFake(time.Now()), log.NewNopLogger())
	return NewDispatcher(client, orch, presets, true, log.NewNopLogger())
}

func newTestClient() *fakeClient {
	return &fakeClient{
		status: &vehicle.Status{
			Nickname:     "Ioniq",
			BatteryLevel: 80,
			Locked:       true,
			LastChecked:  time.Date(2026, time.March, 14, 15, 4, 0, 0, time.UTC),
		},
		cfg: vehicle.Config{ClimateTempWarm: 72, ClimateTempCold: 66},
	}
}

func TestDispatchResolution(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		wantReply string
		wantCmd   vehicle.CommandType
	}{
		{
			name:      "unlock beats lock on substring overlap",
			utterance: "unlock the car",
			wantReply: "Un-locking Ioniq.",
			wantCmd:   vehicle.CommandTypeUnlock,
		},
		{
			name:      "lock",
			utterance: "please lock the car",
			wantReply: "Locking Ioniq.",
			wantCmd:   vehicle.CommandTypeLock,
		},
		{
			name:      "case insensitive",
			utterance: "UNLOCK THE CAR",
			wantReply: "Un-locking Ioniq.",
			wantCmd:   vehicle.CommandTypeUnlock,
		},
		{
			name:      "climate off beats presets",
			utterance: "turn the climate off",
			wantReply: "Turning the climate off in Ioniq.",
			wantCmd:   vehicle.CommandTypeClimate,
		},
		{
			name:      "warm preset",
			utterance: "warm up the car",
			wantReply: "Warming up Ioniq now. It should be comfortable in a few minutes.",
			wantCmd:   vehicle.CommandTypeClimate,
		},
		{
			name:      "cool preset",
			utterance: "cool the car down",
			wantReply: "Cooling down Ioniq now.",
			wantCmd:   vehicle.CommandTypeClimate,
		},
		{
			name:      "start charge",
			utterance: "start charging",
			wantReply: "Starting to charge Ioniq.",
			wantCmd:   vehicle.CommandTypeStartCharge,
		},
		{
			name:      "stop charge",
			utterance: "stop the charge",
			wantReply: "Stopping the charge on Ioniq.",
			wantCmd:   vehicle.CommandTypeStopCharge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient()
			d := newTestDispatcher(client, nil)

			reply := d.Dispatch(context.Background(), tt.utterance)

			assert.Equal(t, tt.wantReply, reply)
			issued := client.issuedCommands()
			require.Len(t, issued, 1)
			assert.Equal(t, tt.wantCmd, issued[0].commandType)
		})
	}
}

func TestDispatchStatus(t *testing.T) {
	client := newTestClient()
	d := newTestDispatcher(client, nil)

	reply := d.Dispatch(context.Background(), "what's the status of my car")

	assert.Equal(t, "Ioniq is at 80% battery and is locked. That's as of Saturday, 3:04 PM.", reply)
	assert.Empty(t, client.issuedCommands(), "a cached status query must not issue a command")
}

func TestDispatchRemoteStatusBeatsStatus(t *testing.T) {
	client := newTestClient()
	d := newTestDispatcher(client, nil)

	reply := d.Dispatch(context.Background(), "get the remote status of my car")

	assert.Equal(t,
		"I've asked Ioniq for a fresh status. Give it 30 seconds, then ask for the status again.",
		reply)
}

func TestDispatchUnmatched(t *testing.T) {
	client := newTestClient()
	d := newTestDispatcher(client, nil)

	reply := d.Dispatch(context.Background(), "open the sunroof")

	assert.Equal(t, `I'm sorry, the command "open the sunroof" is not supported.`, reply)
	assert.Empty(t, client.issuedCommands())
}

func TestDispatchExactlyOnce(t *testing.T) {
	client := newTestClient()
	d := newTestDispatcher(client, nil)

	// The utterance satisfies both the unlock and lock trigger sets; only
	// the first catalog match may run.
	d.Dispatch(context.Background(), "unlock the car and then lock it again")

	issued := client.issuedCommands()
	require.Len(t, issued, 1)
	assert.Equal(t, vehicle.CommandTypeUnlock, issued[0].commandType)
}

func TestDispatchHandlerErrorIsSpoken(t *testing.T) {
	client := newTestClient()
	client.statusErr = errors.New("vehicle unreachable")
	d := newTestDispatcher(client, nil)

	reply := d.Dispatch(context.Background(), "status")

	assert.Equal(t, "I couldn't reach your car: vehicle unreachable.", reply)
}

func TestDispatchWarmPayload(t *testing.T) {
	client := newTestClient()
	d := newTestDispatcher(client, nil)

	d.Dispatch(context.Background(), "warm up the car")

	issued := client.issuedCommands()
	require.Len(t, issued, 1)

	req, ok := issued[0].payload.(vehicle.ClimateRequest)
	require.True(t, ok, "climate command payload must be a ClimateRequest, got %T", issued[0].payload)
	assert.True(t, req.Enable)
	assert.True(t, req.FrontDefrost)
	assert.True(t, req.RearDefrost)
	assert.True(t, req.Steering)
	assert.Equal(t, 72.0, req.Temperature)
	assert.Equal(t, 15, req.DurationMinutes)
}

func TestDispatchCustomPreset(t *testing.T) {
	presets := StaticPresets{{
		Name: "Eco Mode",
		// Enable deliberately off in the definition; the catalog must
		// force it on.
		Request: vehicle.ClimateRequest{Enable: false, Temperature: 68, DurationMinutes: 10},
	}}

	client := newTestClient()
	d := newTestDispatcher(client, presets)

	reply := d.Dispatch(context.Background(), "run the eco mode climate")
	assert.Equal(t, "Starting Eco Mode climate in Ioniq.", reply)

	issued := client.issuedCommands()
	require.Len(t, issued, 1)
	req, ok := issued[0].payload.(vehicle.ClimateRequest)
	require.True(t, ok)
	assert.True(t, req.Enable, "preset entries must always enable the climate")
	assert.Equal(t, 68.0, req.Temperature)
	assert.Equal(t, 10, req.DurationMinutes)
}

func TestDispatchPresetRequiresClimateWord(t *testing.T) {
	presets := StaticPresets{{Name: "Eco Mode"}}
	client := newTestClient()
	d := newTestDispatcher(client, presets)

	reply := d.Dispatch(context.Background(), "eco mode please")

	assert.Equal(t, `I'm sorry, the command "eco mode please" is not supported.`, reply)
	assert.Empty(t, client.issuedCommands())
}

func TestComposeStatus(t *testing.T) {
	checked := time.Date(2026, time.March, 14, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status vehicle.Status
		want   string
	}{
		{
			name:   "locked idle",
			status: vehicle.Status{Nickname: "Ioniq", BatteryLevel: 80, Locked: true, LastChecked: checked},
			want:   "Ioniq is at 80% battery and is locked. That's as of Saturday, 3:04 PM.",
		},
		{
			name:   "unlocked with climate running",
			status: vehicle.Status{Nickname: "Ioniq", BatteryLevel: 55, ClimateOn: true, LastChecked: checked},
			want:   "Ioniq is at 55% battery and is un-locked. The climate is running. That's as of Saturday, 3:04 PM.",
		},
		{
			name: "charging",
			status: vehicle.Status{
				Nickname: "Ioniq", BatteryLevel: 40, Locked: true,
				Charging: true, PluggedIn: true,
				ChargePowerKW: 7.2, RemainingChargeMinutes: 60,
				LastChecked: checked,
			},
			want: "Ioniq is at 40% battery and is locked. It is charging at 7.2 kW and should be done around Saturday, 4:04 PM. That's as of Saturday, 3:04 PM.",
		},
		{
			name: "plugged in but not charging",
			status: vehicle.Status{
				Nickname: "Ioniq", BatteryLevel: 100, Locked: true,
				PluggedIn: true, LastChecked: checked,
			},
			want: "Ioniq is at 100% battery and is locked. It is plugged in but not charging. That's as of Saturday, 3:04 PM.",
		},
		{
			name:   "model name fallback",
			status: vehicle.Status{Model: "IONIQ 5", BatteryLevel: 80, Locked: true, LastChecked: checked},
			want:   "IONIQ 5 is at 80% battery and is locked. That's as of Saturday, 3:04 PM.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, composeStatus(&tt.status))
		})
	}
}
