package model

import "time"

// RecurringPattern is the detector's verdict for one counterparty: a
// periodic series with a frequency class, a forward-looking amount
// estimate, and a confidence score in [0,1].
//
// Patterns are recomputed from scratch on every detection run and are
// never mutated afterwards. MostRecentAmount is deliberately the latest
// matching amount rather than an average so that recent price changes
// dominate the estimate.
type RecurringPattern struct {
	LastDate         time.Time
	NextDate         time.Time
	Merchant         string
	Category         string
	Frequency        Frequency
	AvgIntervalDays  int
	Occurrences      int
	MostRecentAmount float64
	MonthlyCost      float64
	Confidence       float64
}
