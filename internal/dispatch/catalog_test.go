package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlink-io/voxlink/internal/vehicle"
)

func entryIndex(entries []Entry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func TestCatalogOrdering(t *testing.T) {
	d := newTestDispatcher(newTestClient(), nil)
	entries := d.newCatalog([]vehicle.ClimatePreset{{Name: "Eco Mode"}})

	require.NoError(t, ValidateCatalog(entries))

	// Supersets must precede their subsets, otherwise they can never win.
	assert.Less(t, entryIndex(entries, "remote-status"), entryIndex(entries, "status"))
	assert.Less(t, entryIndex(entries, "unlock"), entryIndex(entries, "lock"))

	// climate-off precedes every preset entry (all presets require "climate").
	preset := entryIndex(entries, "climate-preset:eco-mode")
	require.NotEqual(t, -1, preset)
	assert.Less(t, entryIndex(entries, "climate-off"), preset)

	assert.ElementsMatch(t, []string{"eco", "mode", "climate"}, entries[preset].Triggers)
}

func TestCatalogIsFreshPerCall(t *testing.T) {
	d := newTestDispatcher(newTestClient(), nil)
	presets := []vehicle.ClimatePreset{{Name: "Eco Mode"}}

	first := d.newCatalog(presets)
	for i := 0; i < 100; i++ {
		assert.Len(t, d.newCatalog(presets), len(first))
	}
}

func TestValidateCatalog(t *testing.T) {
	var handler HandlerFunc

	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{
			name: "valid",
			entries: []Entry{
				{Name: "a", Triggers: []string{"status", "remote"}, Handler: handler},
				{Name: "b", Triggers: []string{"status"}, Handler: handler},
			},
		},
		{
			name: "empty trigger set",
			entries: []Entry{
				{Name: "a", Triggers: nil, Handler: handler},
			},
			wantErr: "empty trigger set",
		},
		{
			name: "duplicate trigger set ignores order",
			entries: []Entry{
				{Name: "a", Triggers: []string{"remote", "status"}, Handler: handler},
				{Name: "b", Triggers: []string{"Status", "Remote"}, Handler: handler},
			},
			wantErr: "share the trigger set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.entries)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEntryMatches(t *testing.T) {
	e := Entry{Name: "remote-status", Triggers: []string{"status", "remote"}}

	assert.True(t, e.Matches("get the remote status"))
	assert.True(t, e.Matches("statusremote")) // substring, not token, matching
	assert.False(t, e.Matches("get the status"))
	assert.False(t, e.Matches(""))

	empty := Entry{Name: "empty"}
	assert.False(t, empty.Matches("anything"), "an empty trigger set must never match")
}
