package app

import (
	"strings"

	"github.com/google/uuid"
)

// newID produces a random entity identifier.
// Isolated here so the ID strategy can evolve independently.
func newID() string {
	return uuid.NewString()
}

// refNumber derives a short human-facing reference (e.g. "CASE-7F3A21B4")
// from an entity id.
func refNumber(prefix, id string) string {
	compact := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return prefix + "-" + compact
}
