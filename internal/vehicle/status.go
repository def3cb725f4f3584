package vehicle

import "time"

// Status is the last-known snapshot of a vehicle as reported by the Bluelink
// cloud. It is decoupled from any transport payload so the dispatch core does
// not depend on region-specific encodings.
type Status struct {
	// BatteryLevel is the battery state-of-charge in percent.
	BatteryLevel int

	// Locked reports the door lock state.
	Locked bool

	// ClimateOn reports whether remote climate is currently running.
	ClimateOn bool

	// Charging reports whether the battery is actively charging.
	Charging bool

	// PluggedIn reports whether a charge cable is connected.
	PluggedIn bool

	// ChargePowerKW is the current charging power, valid while Charging.
	ChargePowerKW float64

	// RemainingChargeMinutes is the estimated time to full, counted from
	// LastChecked, valid while Charging.
	RemainingChargeMinutes int

	// LastChecked is when the Bluelink cloud last heard from the vehicle.
	// A cached Status may be stale relative to the physical vehicle; callers
	// report it as an "as of" timestamp rather than treating it as current.
	LastChecked time.Time

	// Nickname is the owner-assigned name, may be empty.
	Nickname string

	// Model is the factory model name.
	Model string
}

// DisplayName returns the name used when speaking about the vehicle:
// the nickname when set, otherwise the model, otherwise a generic fallback.
func (s *Status) DisplayName() string {
	if s == nil {
		return "your car"
	}
	if s.Nickname != "" {
		return s.Nickname
	}
	if s.Model != "" {
		return s.Model
	}
	return "your car"
}
