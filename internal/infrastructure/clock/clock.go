// Package clock supplies the bank's notion of "now". Withdrawal windows and
// statement day boundaries are evaluated in the configured zone.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// System reads the wall clock and reports it in a fixed zone.
type System struct {
	loc *time.Location
}

// New creates a System clock in loc. A nil loc means time.Local.
func New(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

// Now returns the current time in the bank's zone.
func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the bank's zone.
func (c *System) Location() *time.Location {
	return c.loc
}

// LoadLocation resolves an IANA zone name. Empty and "Local" select the host
// zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// Fixed always reports the same instant until Set is called.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed creates a Fixed clock at now.
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// Now returns the stored instant.
func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Location returns the zone of the stored instant.
func (c *Fixed) Location() *time.Location {
	return c.Now().Location()
}

// Set moves the clock.
func (c *Fixed) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
