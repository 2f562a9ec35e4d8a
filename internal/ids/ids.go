// Package ids issues correlation identifiers attached to outbound API
// requests and audit events.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// Request returns a lexicographically sortable request identifier.
// Monotonic within the process so log lines sort in issue order.
func Request() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
