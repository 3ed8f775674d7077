// Package clock isolates the time source so that transition and approval
// timestamps are deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall-clock implementation used in production.
func System() Clock { return systemClock{} }

// Fixed is a Clock frozen at a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
