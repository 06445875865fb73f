package session

import "time"

// Clock is the controller's only time source. The real clock wraps
// time.AfterFunc; tests substitute a manual clock so timer expiry can be
// driven deterministically.
type Clock interface {
	// AfterFunc runs f after d and returns a cancel func. Cancelling after
	// the timer fired, or twice, is a no-op.
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type realClock struct{}

// NewRealClock returns a Clock backed by the runtime timer wheel.
func NewRealClock() Clock { return realClock{} }

func (realClock) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
