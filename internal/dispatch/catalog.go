package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/voxlink-io/voxlink/internal/vehicle"
)

// newCatalog builds a fresh command catalog for one resolution pass: the
// fixed built-in entries followed by one entry per user-defined climate
// preset. The slice is newly allocated on every call; nothing process-wide
// is appended to, so repeated invocations cannot accumulate duplicates.
//
// Catalog ORDER is load-bearing. It is the only disambiguation between
// trigger sets that are substrings or subsets of one another:
//   - {"status","remote"} precedes {"status"}
//   - {"unlock"} precedes {"lock"} ("lock" is a substring of "unlock")
//   - {"climate","off"} precedes the preset entries, which all require "climate"
//
// The first fully-matching entry wins.
func (d *Dispatcher) newCatalog(presets []vehicle.ClimatePreset) []Entry {
	entries := []Entry{
		{Name: "remote-status", Triggers: []string{"status", "remote"}, Handler: d.remoteStatus},
		{Name: "status", Triggers: []string{"status"}, Handler: d.status},
		{Name: "climate-off", Triggers: []string{"climate", "off"}, Handler: d.climateOff},
		{Name: "climate-warm", Triggers: []string{"warm"}, Handler: d.climatePresetWarm},
		{Name: "climate-cool", Triggers: []string{"cool"}, Handler: d.climatePresetCool},
		{Name: "unlock", Triggers: []string{"unlock"}, Handler: d.unlock},
		{Name: "lock", Triggers: []string{"lock"}, Handler: d.lock},
		{Name: "start-charge", Triggers: []string{"start", "charge"}, Handler: d.startCharge},
		{Name: "stop-charge", Triggers: []string{"stop", "charge"}, Handler: d.stopCharge},
	}

	for _, p := range presets {
		entries = append(entries, presetEntry(p, d.customClimate))
	}

	return entries
}

// presetEntry maps a user-defined climate preset to a matchable entry. The
// trigger set is the preset's name tokens plus the literal word "climate",
// and the payload is a copy of the preset with Enable forced on: presets
// describe how to run the climate, never how to stop it.
func presetEntry(p vehicle.ClimatePreset, handler HandlerFunc) Entry {
	triggers := strings.Fields(strings.ToLower(p.Name))
	triggers = append(triggers, "climate")

	forced := p
	forced.Request.Enable = true

	return Entry{
		Name:     "climate-preset:" + strings.Join(strings.Fields(strings.ToLower(p.Name)), "-"),
		Triggers: triggers,
		Handler:  handler,
		Payload:  forced,
	}
}

// ValidateCatalog checks the structural invariants the resolver relies on:
// no entry may have an empty trigger set, and no two entries may share the
// same trigger-word set (order-insensitive), since the second could never
// be selected.
func ValidateCatalog(entries []Entry) error {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if len(e.Triggers) == 0 {
			return fmt.Errorf("entry %q has an empty trigger set", e.Name)
		}
		key := triggerKey(e.Triggers)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("entries %q and %q share the trigger set {%s}", prev, e.Name, key)
		}
		seen[key] = e.Name
	}
	return nil
}

func triggerKey(triggers []string) string {
	folded := make([]string, len(triggers))
	for i, w := range triggers {
		folded[i] = strings.ToLower(w)
	}
	sort.Strings(folded)
	return strings.Join(folded, ",")
}
