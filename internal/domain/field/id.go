package field

import (
	"regexp"
	"strconv"
	"sync"
	"time"
)

// LocalIDPrefix marks ids minted by the editor for fields the backend has not seen.
const LocalIDPrefix = "field_"

var localIDRegex = regexp.MustCompile(`^field_[0-9]+$`)

// IsLocalID reports whether id was generated locally (never assigned by the backend).
func IsLocalID(id string) bool {
	return localIDRegex.MatchString(id)
}

// IDGenerator mints local field ids of the form field_<unix-millis>.
// Ids are strictly increasing, so two fields added in the same millisecond differ.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator using the given clock (time.Now if nil).
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh local id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return LocalIDPrefix + strconv.FormatInt(ms, 10)
}

var defaultIDs = NewIDGenerator(nil)

// NewLocalID returns a fresh local id from the process-wide generator.
func NewLocalID() string { return defaultIDs.Next() }
