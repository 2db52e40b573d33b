package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed random identifier, e.g. "job_3f2c...".
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
