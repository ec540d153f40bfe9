// Package ids generates the random string identifiers used as primary
// keys for every entity. Identifiers are fixed-length, URL-safe and
// collision-resistant.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Length of every generated identifier.
const Length = 12

// New returns a fresh random identifier.
func New() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return raw[:Length]
}
