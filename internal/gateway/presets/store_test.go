package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlink-io/voxlink/pkg/log"
)

func writePresets(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "presets.yaml"), log.NewNopLogger())

	require.NoError(t, s.Load())
	assert.Empty(t, s.ClimatePresets())
}

func TestLoadEmptyPathDisablesPresets(t *testing.T) {
	s := NewStore("", log.NewNopLogger())

	require.NoError(t, s.Load())
	assert.Empty(t, s.ClimatePresets())
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	writePresets(t, path, `
presets:
  - name: Eco Mode
    temperature: 68
    duration-minutes: 10
  - name: Defrost
    enable: true
    front-defrost: true
    rear-defrost: true
    steering: true
    temperature: 72
    duration-minutes: 15
  - temperature: 50
`)

	s := NewStore(path, log.NewNopLogger())
	require.NoError(t, s.Load())

	got := s.ClimatePresets()
	require.Len(t, got, 2, "the unnamed preset is skipped")

	assert.Equal(t, "Eco Mode", got[0].Name)
	assert.False(t, got[0].Request.Enable, "the store keeps the preset as written; enabling is the catalog's concern")
	assert.Equal(t, 68.0, got[0].Request.Temperature)
	assert.Equal(t, 10, got[0].Request.DurationMinutes)

	assert.Equal(t, "Defrost", got[1].Name)
	assert.True(t, got[1].Request.FrontDefrost)
	assert.True(t, got[1].Request.RearDefrost)
	assert.True(t, got[1].Request.Steering)
}

func TestLoadKeepsPreviousSetOnBadEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	writePresets(t, path, "presets:\n  - name: Eco Mode\n    temperature: 68\n")

	s := NewStore(path, log.NewNopLogger())
	require.NoError(t, s.Load())
	require.Len(t, s.ClimatePresets(), 1)

	writePresets(t, path, "presets: [not: {valid")

	assert.Error(t, s.Load())
	assert.Len(t, s.ClimatePresets(), 1, "a bad edit must not drop the working presets")
}
