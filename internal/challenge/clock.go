package challenge

import "time"

// Clock abstracts "now" so day arithmetic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock used in production wiring.
func SystemClock() Clock { return systemClock{} }
