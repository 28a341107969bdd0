package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns an opaque prefixed identifier, e.g. "job_6f1a2c...".
// Prefixes keep ids self-describing in logs and API payloads.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
