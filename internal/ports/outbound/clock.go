package outbound

import "time"

// Clock supplies the current time. Injectable so that time-driven
// transitions are deterministic under test.
type Clock interface {
	Now() time.Time
}
