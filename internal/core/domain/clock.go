package domain

import "time"

// Clock supplies the current moment. The ledger never freezes "today" at
// creation time, so every classification goes through an injected clock and
// tests can pin the date boundary.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
