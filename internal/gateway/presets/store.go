package presets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
)

// Store holds the user-defined climate presets loaded from a YAML file and
// hot-reloads them when the file changes. The dispatcher reads the current
// set on every utterance, so an edited preset is matchable immediately.
type Store struct {
	path   string
	logger log.Logger

	mu      sync.RWMutex
	presets []vehicle.ClimatePreset
}

type presetFile struct {
	Presets []vehicle.ClimatePreset `yaml:"presets"`
}

// NewStore creates a Store for the given file path. An empty path disables
// custom presets entirely.
func NewStore(path string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.Std()
	}
	return &Store{
		path:   path,
		logger: logger.WithName("presets"),
	}
}

// Load reads the preset file. A missing file is not an error: it simply
// means no custom presets yet.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.replace(nil)
			return nil
		}
		return fmt.Errorf("read presets file: %w", err)
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse presets file %s: %w", s.path, err)
	}

	kept := pf.Presets[:0]
	for _, p := range pf.Presets {
		if p.Name == "" {
			s.logger.Warn("Skipping unnamed climate preset")
			continue
		}
		kept = append(kept, p)
	}

	s.replace(kept)
	s.logger.Info("Loaded climate presets", "count", len(kept), "file", s.path)
	return nil
}

// ClimatePresets returns a copy of the current presets.
func (s *Store) ClimatePresets() []vehicle.ClimatePreset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vehicle.ClimatePreset, len(s.presets))
	copy(out, s.presets)
	return out
}

func (s *Store) replace(presets []vehicle.ClimatePreset) {
	s.mu.Lock()
	s.presets = presets
	s.mu.Unlock()
}

// Start watches the preset file and reloads it on change, blocking until
// ctx is cancelled. Watching the containing directory instead of the file
// itself survives the rename-and-replace pattern editors and config
// management tools use.
func (s *Store) Start(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create preset watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch preset directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Load(); err != nil {
				// Keep serving the previous presets on a bad edit.
				s.logger.Error(err, "Preset reload failed, keeping previous set")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error(err, "Preset watcher error")
		}
	}
}
