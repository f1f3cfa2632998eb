package out

import "time"

// AccrualClock runs fire every interval until the returned cancel is called.
// Cancel must not block on an in-flight fire.
type AccrualClock interface {
	Schedule(interval time.Duration, fire func()) (cancel func())
}
