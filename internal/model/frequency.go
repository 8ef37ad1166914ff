package model

import "fmt"

// Frequency classifies how often a recurring series repeats.
type Frequency string

// Supported recurrence frequencies.
const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// MonthlyFactor returns the multiplier that normalizes one occurrence's
// amount to a per-month figure.
func (f Frequency) MonthlyFactor() float64 {
	switch f {
	case FrequencyWeekly:
		return 4.33
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 1.0 / 3
	case FrequencyYearly:
		return 1.0 / 12
	}
	return 0
}

// StepMonths returns the calendar-month stride between occurrences.
// Weekly recurrence does not step in whole months; callers must use
// day-based arithmetic for it.
func (f Frequency) StepMonths() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyYearly:
		return 12
	}
	return 0
}

// Validate ensures the frequency is one of the supported values.
func (f Frequency) Validate() error {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return nil
	}
	return fmt.Errorf("invalid frequency: %q", string(f))
}

func (f Frequency) String() string {
	return string(f)
}
