package rfm

import (
	"sort"
	"time"
)

// DefaultSnapshotOffset is added to the latest purchase to form the snapshot date.
const DefaultSnapshotOffset = 24 * time.Hour

// SnapshotDate returns the latest purchase timestamp in facts plus offset.
func SnapshotDate(facts []OrderFact, offset time.Duration) (time.Time, error) {
	if len(facts) == 0 {
		return time.Time{}, ErrNoOrders
	}
	latest := facts[0].PurchasedAt
	for _, f := range facts[1:] {
		if f.PurchasedAt.After(latest) {
			latest = f.PurchasedAt
		}
	}
	return latest.Add(offset), nil
}

type accumulator struct {
	last     time.Time
	orders   map[string]struct{}
	monetary float64
}

// Derive computes one CustomerRFM per distinct customer key, sorted by key.
// Monetary sums every row, so an order joined to several line items counts
// its payments once per item.
func Derive(facts []OrderFact, snapshot time.Time) []CustomerRFM {
	acc := make(map[string]*accumulator)
	for _, f := range facts {
		a, ok := acc[f.CustomerKey]
		if !ok {
			a = &accumulator{last: f.PurchasedAt, orders: make(map[string]struct{})}
			acc[f.CustomerKey] = a
		}
		if f.PurchasedAt.After(a.last) {
			a.last = f.PurchasedAt
		}
		a.orders[f.OrderID] = struct{}{}
		a.monetary += f.Payment
	}

	keys := make([]string, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]CustomerRFM, 0, len(keys))
	for _, k := range keys {
		a := acc[k]
		out = append(out, CustomerRFM{
			CustomerKey: k,
			Recency:     wholeDays(snapshot.Sub(a.last)),
			Frequency:   len(a.orders),
			Monetary:    a.monetary,
		})
	}
	return out
}

// wholeDays truncates toward negative infinity, matching a timedelta's days field.
func wholeDays(d time.Duration) int {
	day := 24 * time.Hour
	n := d / day
	if d%day < 0 {
		n--
	}
	return int(n)
}
