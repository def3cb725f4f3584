package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/voxlink-io/voxlink/internal/vehicle"
)

const (
	// remoteStatusGrace gives a fire-and-forget refresh time to leave the
	// process before the reply is spoken.
	remoteStatusGrace = 3 * time.Second

	// remoteStatusRequerySeconds is the delay the caller is told to wait
	// before asking for status again; the cloud-side vehicle poll completes
	// out of band within that window.
	remoteStatusRequerySeconds = 30

	// climateDurationMinutes is the run time for the fixed warm/cool presets.
	climateDurationMinutes = 15
)

// status reports the cached-preferring snapshot as one spoken sentence.
func (d *Dispatcher) status(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	st, err := client.Status(ctx, false, true)
	if err != nil {
		return "", err
	}
	return composeStatus(st), nil
}

// remoteStatus submits a live refresh without awaiting its result, pauses
// briefly so the submission leaves the process, and tells the caller to
// re-query after the vehicle has had time to answer the cloud.
func (d *Dispatcher) remoteStatus(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	name := client.CachedStatus().DisplayName()

	refreshCtx := context.WithoutCancel(ctx)
	go func() {
		if _, err := client.Status(refreshCtx, true, false); err != nil {
			d.logger.Error(err, "Remote status refresh failed")
		}
	}()

	d.orch.Pause(ctx, remoteStatusGrace)

	return fmt.Sprintf("I've asked %s for a fresh status. Give it %d seconds, then ask for the status again.",
		name, remoteStatusRequerySeconds), nil
}

func (d *Dispatcher) climatePresetWarm(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	req := vehicle.ClimateRequest{
		Enable:          true,
		FrontDefrost:    true,
		RearDefrost:     true,
		Steering:        true,
		Temperature:     client.Config().ClimateTempWarm,
		DurationMinutes: climateDurationMinutes,
	}
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Warming up %s now. It should be comfortable in a few minutes.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeClimate, msg, req), nil
}

func (d *Dispatcher) climatePresetCool(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	req := vehicle.ClimateRequest{
		Enable:          true,
		Temperature:     client.Config().ClimateTempCold,
		DurationMinutes: climateDurationMinutes,
	}
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Cooling down %s now.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeClimate, msg, req), nil
}

func (d *Dispatcher) climateOff(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	req := vehicle.ClimateRequest{
		Enable:      false,
		Temperature: client.Config().ClimateTempCold,
	}
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Turning the climate off in %s.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeClimate, msg, req), nil
}

// customClimate runs a user-defined preset. The payload is the preset copy
// built by presetEntry, Enable already forced on.
func (d *Dispatcher) customClimate(ctx context.Context, client vehicle.Client, payload any) (string, error) {
	preset, ok := payload.(vehicle.ClimatePreset)
	if !ok {
		return "", fmt.Errorf("unexpected climate preset payload type %T", payload)
	}
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Starting %s climate in %s.", preset.Name, name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeClimate, msg, preset.Request), nil
}

func (d *Dispatcher) lock(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Locking %s.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeLock, msg, nil), nil
}

func (d *Dispatcher) unlock(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Un-locking %s.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeUnlock, msg, nil), nil
}

func (d *Dispatcher) startCharge(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Starting to charge %s.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeStartCharge, msg, nil), nil
}

func (d *Dispatcher) stopCharge(ctx context.Context, client vehicle.Client, _ any) (string, error) {
	name := client.CachedStatus().DisplayName()
	msg := fmt.Sprintf("Stopping the charge on %s.", name)
	return d.orch.Issue(ctx, client, vehicle.CommandTypeStopCharge, msg, nil), nil
}

// composeStatus renders the status snapshot as one deterministic sentence.
// The snapshot may be stale, so the reply always carries an "as of" suffix
// instead of pretending to be current.
func composeStatus(st *vehicle.Status) string {
	lockState := "un-locked"
	if st.Locked {
		lockState = "locked"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is at %d%% battery and is %s.", st.DisplayName(), st.BatteryLevel, lockState)

	if st.ClimateOn {
		b.WriteString(" The climate is running.")
	}

	switch {
	case st.Charging:
		done := st.LastChecked.Add(time.Duration(st.RemainingChargeMinutes) * time.Minute)
		fmt.Fprintf(&b, " It is charging at %.1f kW and should be done around %s.",
			st.ChargePowerKW, formatClock(done))
	case st.PluggedIn:
		b.WriteString(" It is plugged in but not charging.")
	}

	fmt.Fprintf(&b, " That's as of %s.", formatClock(st.LastChecked))
	return b.String()
}

func formatClock(t time.Time) string {
	return t.Format("Monday, 3:04 PM")
}
