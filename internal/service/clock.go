package service

import "time"

// Clock supplies "now" to services. Production wires time.Now; tests wire a
// fixed instant. Every "today" computation flows through it so there is no
// hidden date skew anywhere in the system.
type Clock func() time.Time

// StartOfDay truncates t to midnight UTC. UTC is the single reference time
// zone for all schedule math; workout dates are stored and compared this way.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
