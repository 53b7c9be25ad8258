package lifecycle

import "time"

// Countdown describes how much of an appeal window remains relative to a
// reference instant. Rendering ("2 days remaining") is a client concern.
type Countdown struct {
	Expired bool
	Days    int
}

// Today reports whether the deadline falls within the current day.
func (c Countdown) Today() bool {
	return !c.Expired && c.Days == 0
}

// Tomorrow reports whether the deadline falls within the next day.
func (c Countdown) Tomorrow() bool {
	return !c.Expired && c.Days == 1
}

// Remaining computes the whole days left until deadline as seen from
// reference. The day count is the floor of the millisecond delta over a
// day's length, matching how the mobile client displayed countdowns:
// a deadline later today is "today" (0 days), not "1 day".
// Any reference at or past the deadline is expired.
func Remaining(reference, deadline time.Time) Countdown {
	if !reference.Before(deadline) {
		return Countdown{Expired: true}
	}

	days := deadline.Sub(reference).Milliseconds() / millisPerDay
	return Countdown{Days: int(days)}
}

const millisPerDay = 24 * 60 * 60 * 1000
