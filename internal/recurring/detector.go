package recurring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lhalloway/ledgerflow/internal/model"
)

// GroupKeyFunc maps a transaction onto its counterparty grouping key. An
// empty key drops the transaction from detection.
type GroupKeyFunc func(model.Transaction) string

// DefaultGroupKey groups by the canonicalized merchant when present,
// falling back to the raw payee string.
func DefaultGroupKey(txn model.Transaction) string {
	if key := strings.TrimSpace(txn.NormalizedMerchant); key != "" {
		return key
	}
	return strings.TrimSpace(txn.Payee)
}

// Detector mines a flat transaction set for periodic counterparty
// activity. It is stateless across calls; repeated runs over the same
// input yield the same output.
type Detector struct {
	groupKey GroupKeyFunc
	cfg      Config
}

// NewDetector creates a detector with the given thresholds and the
// default grouping key.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg, groupKey: DefaultGroupKey}
}

// NewDetectorWithGroupKey creates a detector with a custom grouping key,
// so normalization logic can evolve independently of detection.
func NewDetectorWithGroupKey(cfg Config, groupKey GroupKeyFunc) *Detector {
	if groupKey == nil {
		groupKey = DefaultGroupKey
	}
	return &Detector{cfg: cfg, groupKey: groupKey}
}

// Detect returns recurring expense patterns ranked by monthly cost.
// Malformed rows (zero amount, missing date, empty grouping key) are
// skipped, never surfaced as errors.
func (d *Detector) Detect(transactions []model.Transaction) []model.RecurringPattern {
	return d.detect(transactions, func(t model.Transaction) bool { return t.IsExpense() })
}

// DetectIncome runs the same mining over income-sign transactions, for
// salary and other periodic inflows.
func (d *Detector) DetectIncome(transactions []model.Transaction) []model.RecurringPattern {
	return d.detect(transactions, func(t model.Transaction) bool { return t.IsIncome() })
}

func (d *Detector) detect(transactions []model.Transaction, keep func(model.Transaction) bool) []model.RecurringPattern {
	groups := make(map[string][]model.Transaction)
	for _, txn := range transactions {
		if txn.Amount == 0 || txn.BookingDate.IsZero() || !keep(txn) {
			continue
		}
		key := d.groupKey(txn)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], txn)
	}

	patterns := make([]model.RecurringPattern, 0, len(groups))
	for merchant, group := range groups {
		if pattern, ok := d.analyzeGroup(merchant, group); ok {
			patterns = append(patterns, pattern)
		}
	}

	// Rank by monthly cost, merchant as deterministic tie-breaker.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].MonthlyCost != patterns[j].MonthlyCost {
			return patterns[i].MonthlyCost > patterns[j].MonthlyCost
		}
		return patterns[i].Merchant < patterns[j].Merchant
	})

	return patterns
}

// analyzeGroup runs interval statistics over one counterparty's
// transactions and classifies them against the configured bands.
func (d *Detector) analyzeGroup(merchant string, group []model.Transaction) (model.RecurringPattern, bool) {
	if len(group) < d.cfg.MinOccurrences {
		return model.RecurringPattern{}, false
	}

	sort.Slice(group, func(i, j int) bool {
		return group[i].BookingDate.Before(group[j].BookingDate)
	})

	// Same-day duplicates still count toward occurrences but contribute
	// no interval.
	intervals := make([]float64, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		days := group[i].BookingDate.Sub(group[i-1].BookingDate).Hours() / 24
		if days > 0 {
			intervals = append(intervals, days)
		}
	}
	if len(intervals) == 0 {
		return model.RecurringPattern{}, false
	}

	meanInterval := mean(intervals)
	frequency, ok := d.classify(meanInterval, intervals)
	if !ok {
		return model.RecurringPattern{}, false
	}

	amounts := make([]float64, len(group))
	for i, txn := range group {
		amounts[i] = math.Abs(txn.Amount)
	}

	latest := math.Abs(group[len(group)-1].Amount)
	lastDate := group[len(group)-1].BookingDate
	intervalDays := int(math.Round(meanInterval))

	return model.RecurringPattern{
		Merchant:         merchant,
		Frequency:        frequency,
		AvgIntervalDays:  intervalDays,
		Occurrences:      len(group),
		MostRecentAmount: latest,
		MonthlyCost:      latest * frequency.MonthlyFactor(),
		Confidence:       d.confidence(len(group), intervals, amounts),
		LastDate:         lastDate,
		NextDate:         lastDate.AddDate(0, 0, intervalDays),
		Category:         group[0].Category,
	}, true
}

// classify matches the mean interval against the configured bands in
// order. A band wins only if the mean lies within tolerance and enough
// of the individual intervals do as well.
func (d *Detector) classify(meanInterval float64, intervals []float64) (model.Frequency, bool) {
	for _, band := range d.cfg.Bands {
		if !band.Contains(meanInterval) {
			continue
		}
		within := 0
		for _, interval := range intervals {
			if band.Contains(interval) {
				within++
			}
		}
		if float64(within)/float64(len(intervals)) >= d.cfg.ConsistencyRatio {
			return band.Frequency, true
		}
	}
	return "", false
}

// confidence blends occurrence count, interval regularity, and amount
// stability into a single [0,1] score.
func (d *Detector) confidence(occurrences int, intervals, amounts []float64) float64 {
	countTerm := float64(occurrences) / float64(d.cfg.CountSaturation)
	if countTerm > 1 {
		countTerm = 1
	}

	intervalTerm := 1 - coefficientOfVariation(intervals)
	if intervalTerm < 0 {
		intervalTerm = 0
	}

	amountTerm := 1 - coefficientOfVariation(amounts)
	if amountTerm < 0 {
		amountTerm = 0
	}

	score := countTerm*d.cfg.CountWeight + intervalTerm*d.cfg.IntervalWeight + amountTerm*d.cfg.AmountWeight
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// FilterActive restricts patterns to those whose last occurrence is
// recent enough for their frequency class: within 14 days for weekly,
// since the start of the previous month for monthly, within the last
// quarter for quarterly, and within the last year for yearly. It is a
// pure post-filter and never changes classification.
func FilterActive(patterns []model.RecurringPattern, now time.Time) []model.RecurringPattern {
	active := make([]model.RecurringPattern, 0, len(patterns))
	for _, p := range patterns {
		if lastSeenWithinWindow(p, now) {
			active = append(active, p)
		}
	}
	return active
}

func lastSeenWithinWindow(p model.RecurringPattern, now time.Time) bool {
	var cutoff time.Time
	switch p.Frequency {
	case model.FrequencyWeekly:
		cutoff = now.AddDate(0, 0, -14)
	case model.FrequencyMonthly:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		cutoff = firstOfMonth.AddDate(0, -1, 0)
	case model.FrequencyQuarterly:
		cutoff = now.AddDate(0, -3, 0)
	case model.FrequencyYearly:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return false
	}
	return !p.LastDate.Before(cutoff)
}
