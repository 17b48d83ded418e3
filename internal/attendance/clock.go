package attendance

import "time"

const dayFormat = "2006-01-02"

// Clock abstracts wall-clock reads so day-boundary and locking behavior
// can be tested without real time passing.
type Clock interface {
	Today() string
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Today() string  { return time.Now().Format(dayFormat) }
func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }
