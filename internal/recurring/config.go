// Package recurring mines historical transactions for periodic
// counterparty activity and scores the resulting patterns.
package recurring

import "github.com/lhalloway/ledgerflow/internal/model"

// Band describes one frequency class as a target interval in days plus a
// symmetric tolerance around it.
type Band struct {
	Frequency     model.Frequency
	TargetDays    float64
	ToleranceDays float64
}

// Contains reports whether an interval falls within the band's tolerance
// of its target.
func (b Band) Contains(intervalDays float64) bool {
	diff := intervalDays - b.TargetDays
	if diff < 0 {
		diff = -diff
	}
	return diff <= b.ToleranceDays
}

// Config holds the detector's thresholds and classification bands. It is
// passed in explicitly so concurrent or test-isolated runs never share
// mutable state.
type Config struct {
	// Bands are evaluated in order; the first band whose conditions are
	// both satisfied wins.
	Bands []Band
	// MinOccurrences is the smallest group size considered at all.
	MinOccurrences int
	// ConsistencyRatio is the fraction of individual intervals that must
	// fall inside a band for it to match, in addition to the mean.
	ConsistencyRatio float64
	// Confidence weights; they should sum to 1.
	CountWeight    float64
	IntervalWeight float64
	AmountWeight   float64
	// CountSaturation is the occurrence count at which the count term of
	// the confidence score reaches its maximum.
	CountSaturation int
}

// DefaultConfig returns the standard detection thresholds: at least three
// occurrences, 60% interval consistency, and weekly/monthly/quarterly/
// yearly bands of 7±3, 30±10, 90±20 and 365±30 days.
func DefaultConfig() Config {
	return Config{
		Bands: []Band{
			{Frequency: model.FrequencyWeekly, TargetDays: 7, ToleranceDays: 3},
			{Frequency: model.FrequencyMonthly, TargetDays: 30, ToleranceDays: 10},
			{Frequency: model.FrequencyQuarterly, TargetDays: 90, ToleranceDays: 20},
			{Frequency: model.FrequencyYearly, TargetDays: 365, ToleranceDays: 30},
		},
		MinOccurrences:   3,
		ConsistencyRatio: 0.6,
		CountWeight:      0.3,
		IntervalWeight:   0.4,
		AmountWeight:     0.3,
		CountSaturation:  10,
	}
}
