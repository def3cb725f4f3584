package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/voxlink-io/voxlink/internal/command"
	"github.com/voxlink-io/voxlink/internal/pkg/metrics"
	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
)

// PresetSource supplies the current user-defined climate presets. The
// dispatcher asks for them on every resolution pass, so preset changes
// (e.g. a hot-reloaded config file) take effect immediately.
type PresetSource interface {
	ClimatePresets() []vehicle.ClimatePreset
}

// StaticPresets is a fixed PresetSource.
type StaticPresets []vehicle.ClimatePreset

func (s StaticPresets) ClimatePresets() []vehicle.ClimatePreset { return s }

// Dispatcher resolves free-text utterances against the command catalog and
// executes the first fully-matching entry. It is the single entry point of
// the core: it always answers with a string and never returns an error.
type Dispatcher struct {
	client  vehicle.Client
	orch    *command.Orchestrator
	presets PresetSource
	debug   bool
	logger  log.Logger
}

// NewDispatcher wires a dispatcher. A nil orchestrator gets a default one
// (real clock); a nil preset source means no custom presets.
func NewDispatcher(client vehicle.Client, orch *command.Orchestrator, presets PresetSource, debug bool, logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Std()
	}
	if orch == nil {
		orch = command.NewOrchestrator(nil, logger)
	}
	if presets == nil {
		presets = StaticPresets(nil)
	}
	return &Dispatcher{
		client:  client,
		orch:    orch,
		presets: presets,
		debug:   debug,
		logger:  logger.WithName("dispatch"),
	}
}

// Dispatch matches text against a freshly built catalog in order and invokes
// the first entry whose trigger words all occur in the text. Exactly one
// handler runs per call, at most once. Unmatched input is a normal outcome
// answered with a fallback that echoes the utterance.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) string {
	catalog := d.newCatalog(d.presets.ClimatePresets())

	if d.debug {
		d.logger.Debug("Resolving utterance", "text", text)
		if err := ValidateCatalog(catalog); err != nil {
			d.logger.Error(err, "Command catalog violates its invariants")
		}
	}

	folded := strings.ToLower(text)

	for _, entry := range catalog {
		if miss := entry.missingTrigger(folded); miss != "" {
			if d.debug {
				d.logger.Debug("Entry not matched", "entry", entry.Name, "missingWord", miss)
			}
			continue
		}

		metrics.UtterancesTotal.WithLabelValues("matched", entry.Name).Inc()

		reply, err := entry.Handler(ctx, d.client, entry.Payload)
		if err != nil {
			// The vehicle client's failure is not translated, only spoken:
			// the dispatch boundary must always produce a reply.
			d.logger.Error(err, "Handler failed", "entry", entry.Name)
			return fmt.Sprintf("I couldn't reach your car: %v.", err)
		}

		if d.debug {
			d.logger.Debug("Resolved utterance", "entry", entry.Name, "reply", reply)
		}
		return reply
	}

	metrics.UtterancesTotal.WithLabelValues("unmatched", "none").Inc()
	return fmt.Sprintf("I'm sorry, the command %q is not supported.", text)
}

// ResolveAndExecute resolves one utterance with a one-shot dispatcher. It is
// the convenience surface for callers that hold only a vehicle client: a
// fresh catalog is built from the given presets, debug logging goes through
// the process-wide logger, and the reply is always a plain string.
func ResolveAndExecute(ctx context.Context, client vehicle.Client, inputText string, debugLogging bool, presets []vehicle.ClimatePreset) string {
	d := NewDispatcher(client, nil, StaticPresets(presets), debugLogging, log.Std())
	return d.Dispatch(ctx, inputText)
}
