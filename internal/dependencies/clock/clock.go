package clock

import "time"

// Clock abstracts wall-clock reads so services can run against a fixed
// time in tests
type Clock interface {
	Now() time.Time
}

// systemClock reads the real system time
type systemClock struct{}

var _ Clock = (*systemClock)(nil)

// New returns a Clock backed by the system time
func New() Clock {
	return &systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
