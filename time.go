package registration

import "time"

// ActivationDeadline is the instant at which an account created at joined
// stops being activatable.
func ActivationDeadline(joined time.Time, window time.Duration) time.Time {
	return joined.Add(window)
}

// OutsideActivationWindow reports whether now falls at or past the deadline.
// The boundary instant itself counts as expired.
func OutsideActivationWindow(joined time.Time, window time.Duration, now time.Time) bool {
	return !ActivationDeadline(joined, window).After(now)
}
