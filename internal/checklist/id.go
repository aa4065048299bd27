package checklist

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces task identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// idObserver is implemented by generators that must stay ahead of ids they
// did not issue themselves, such as ids loaded from the store.
type idObserver interface {
	Observe(id string)
}

// UUIDGenerator issues time-ordered UUIDv7 identifiers.
type UUIDGenerator struct{}

// NewID returns a new UUIDv7 string.
func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// TimestampGenerator issues millisecond timestamps as decimal strings, forced
// strictly increasing within the process.
type TimestampGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampGenerator creates a generator reading the wall clock.
func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{now: time.Now}
}

// NewID returns the current millisecond timestamp, or last+1 when the clock
// has not advanced.
func (g *TimestampGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now
	if g.now != nil {
		now = g.now
	}

	ms := now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10), nil
}

// Observe moves the generator past id when id is a numeric timestamp at or
// beyond the last issued value. Other ids are ignored.
func (g *TimestampGenerator) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.last {
		g.last = n
	}
}

// NewIDGenerator maps a configured strategy name to a generator.
func NewIDGenerator(strategy string) IDGenerator {
	switch strategy {
	case "timestamp":
		return NewTimestampGenerator()
	default:
		return UUIDGenerator{}
	}
}
