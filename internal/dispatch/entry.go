package dispatch

import (
	"context"
	"strings"

	"github.com/voxlink-io/voxlink/internal/vehicle"
)

// HandlerFunc executes a matched command against the vehicle client and
// returns the spoken reply. payload is the entry's opaque payload, nil for
// commands that carry none.
type HandlerFunc func(ctx context.Context, client vehicle.Client, payload any) (string, error)

// Entry binds a trigger-word set to a handler. An entry matches when every
// trigger word occurs, case-insensitively, as a substring of the utterance;
// word order within the utterance does not matter. Substring (not token)
// matching is intentional: voice assistants embed the command phrase in
// longer generated sentences.
type Entry struct {
	// Name identifies the command in logs and metrics.
	Name string

	// Triggers is the non-empty trigger-word set.
	Triggers []string

	Handler HandlerFunc

	// Payload is passed through to the handler unchanged.
	Payload any
}

// Matches reports whether every trigger word occurs in the folded utterance.
func (e Entry) Matches(foldedText string) bool {
	return e.missingTrigger(foldedText) == ""
}

// missingTrigger returns the first trigger word absent from the folded
// utterance, or "" when the entry fully matches. The concrete word is kept
// for per-entry miss diagnostics in debug logging.
func (e Entry) missingTrigger(foldedText string) string {
	for _, w := range e.Triggers {
		if !strings.Contains(foldedText, strings.ToLower(w)) {
			return w
		}
	}
	if len(e.Triggers) == 0 {
		// An empty trigger set would match everything; treat it as never matching.
		return "<empty trigger set>"
	}
	return ""
}
