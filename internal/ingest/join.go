package ingest

import "rfmseg/internal/rfm"

// Multiplicity selects how payments are repeated when joined to line items.
type Multiplicity string

const (
	// PerLineItem repeats each payment once per line item of its order, as a
	// plain orders ⟕ items ⟕ payments join does.
	PerLineItem Multiplicity = "joined"
	// PerPayment emits each payment row exactly once.
	PerPayment Multiplicity = "payments"
)

// JoinStats counts what the join kept and dropped.
type JoinStats struct {
	Orders            int // cleaned orders considered
	Facts             int
	NoCustomer        int // orders whose customer has no unique id
	NoPayment         int // orders without a positive payment
	InflatedFacts     int // facts beyond one per payment, PerLineItem only
	DistinctCustomers int
}

// Facts joins orders to their line items, payments and customers.
// Orders without a resolvable customer or a payment are dropped.
func (ds *Dataset) Facts(mode Multiplicity) ([]rfm.OrderFact, JoinStats) {
	items := make(map[string]int, len(ds.Items))
	for _, it := range ds.Items {
		items[it.OrderID]++
	}
	payments := make(map[string][]Payment, len(ds.Payments))
	for _, p := range ds.Payments {
		payments[p.OrderID] = append(payments[p.OrderID], p)
	}
	unique := make(map[string]string, len(ds.Customers))
	for _, c := range ds.Customers {
		unique[c.CustomerID] = c.UniqueID
	}

	st := JoinStats{Orders: len(ds.Orders)}
	customers := make(map[string]struct{})
	var facts []rfm.OrderFact
	for _, o := range ds.Orders {
		key := unique[o.CustomerID]
		if key == "" {
			st.NoCustomer++
			continue
		}
		pays := payments[o.OrderID]
		if len(pays) == 0 {
			st.NoPayment++
			continue
		}
		repeat := 1
		if mode != PerPayment && items[o.OrderID] > 1 {
			repeat = items[o.OrderID]
		}
		for _, p := range pays {
			for k := 0; k < repeat; k++ {
				facts = append(facts, rfm.OrderFact{
					CustomerKey: key,
					OrderID:     o.OrderID,
					PurchasedAt: o.PurchasedAt,
					Payment:     p.Value,
				})
			}
		}
		st.InflatedFacts += len(pays) * (repeat - 1)
		customers[key] = struct{}{}
	}
	st.Facts = len(facts)
	st.DistinctCustomers = len(customers)
	return facts, st
}
