package ingest

// Each clean function converts a raw table into typed records, dropping or
// deduplicating rows the way the analysis expects.

func cleanOrders(t *rawTable, status string) ([]Order, error) {
	c, err := t.columns("order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date")
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(t.rows))
	for _, row := range t.rows {
		if status != "" && cell(row, c[2]) != status {
			continue
		}
		purchased, ok := parseTime(cell(row, c[3]))
		if !ok {
			continue
		}
		o := Order{
			OrderID:     cell(row, c[0]),
			CustomerID:  cell(row, c[1]),
			Status:      cell(row, c[2]),
			PurchasedAt: purchased,
		}
		o.ApprovedAt, _ = parseTime(cell(row, c[4]))
		o.DeliveredCarrierAt, _ = parseTime(cell(row, c[5]))
		o.DeliveredCustomerAt, _ = parseTime(cell(row, c[6]))
		o.EstimatedDeliveryAt, _ = parseTime(cell(row, c[7]))
		out = append(out, o)
	}
	return out, nil
}

func cleanItems(t *rawTable) ([]OrderItem, error) {
	c, err := t.columns("order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value")
	if err != nil {
		return nil, err
	}
	out := make([]OrderItem, 0, len(t.rows))
	for _, row := range t.rows {
		orderID := cell(row, c[0])
		price, ok := parseFloat(cell(row, c[4]))
		if orderID == "" || !ok {
			continue
		}
		it := OrderItem{
			OrderID:   orderID,
			ProductID: cell(row, c[2]),
			SellerID:  cell(row, c[3]),
			Price:     price,
		}
		it.OrderItemID, _ = parseInt(cell(row, c[1]))
		it.Freight, _ = parseFloat(cell(row, c[5]))
		out = append(out, it)
	}
	return out, nil
}

func cleanPayments(t *rawTable) ([]Payment, error) {
	c, err := t.columns("order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value")
	if err != nil {
		return nil, err
	}
	out := make([]Payment, 0, len(t.rows))
	for _, row := range t.rows {
		v, ok := parseFloat(cell(row, c[4]))
		if !ok || v <= 0 {
			continue
		}
		p := Payment{
			OrderID: cell(row, c[0]),
			Type:    cell(row, c[2]),
			Value:   v,
		}
		p.Sequential, _ = parseInt(cell(row, c[1]))
		p.Installments, _ = parseInt(cell(row, c[3]))
		out = append(out, p)
	}
	return out, nil
}

func cleanCustomers(t *rawTable) ([]Customer, error) {
	c, err := t.columns("customer_id", "customer_unique_id", "customer_zip_code_prefix", "customer_city", "customer_state")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]Customer, 0, len(t.rows))
	for _, row := range t.rows {
		id := cell(row, c[0])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Customer{
			CustomerID: id,
			UniqueID:   cell(row, c[1]),
			ZipPrefix:  cell(row, c[2]),
			City:       cell(row, c[3]),
			State:      cell(row, c[4]),
		})
	}
	return out, nil
}

func cleanReviews(t *rawTable) ([]Review, error) {
	c, err := t.columns("review_id", "order_id", "review_score", "review_creation_date", "review_answer_timestamp")
	if err != nil {
		return nil, err
	}
	out := make([]Review, 0, len(t.rows))
	for _, row := range t.rows {
		score, ok := parseInt(cell(row, c[2]))
		if !ok {
			continue
		}
		r := Review{
			ReviewID: cell(row, c[0]),
			OrderID:  cell(row, c[1]),
			Score:    score,
		}
		r.CreatedAt, _ = parseTime(cell(row, c[3]))
		r.AnsweredAt, _ = parseTime(cell(row, c[4]))
		out = append(out, r)
	}
	return out, nil
}

func cleanProducts(t *rawTable) ([]Product, error) {
	c, err := t.columns("product_id", "product_category_name")
	if err != nil {
		return nil, err
	}
	// Deduplicate first, then drop nulls: a null-category first occurrence
	// removes the product entirely.
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]Product, 0, len(t.rows))
	for _, row := range t.rows {
		id := cell(row, c[0])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cat := cell(row, c[1])
		if id == "" || cat == "" {
			continue
		}
		out = append(out, Product{ProductID: id, Category: cat})
	}
	return out, nil
}

func cleanSellers(t *rawTable) ([]Seller, error) {
	c, err := t.columns("seller_id", "seller_zip_code_prefix", "seller_city", "seller_state")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]Seller, 0, len(t.rows))
	for _, row := range t.rows {
		id := cell(row, c[0])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Seller{SellerID: id, ZipPrefix: cell(row, c[1]), City: cell(row, c[2]), State: cell(row, c[3])})
	}
	return out, nil
}

func cleanGeolocation(t *rawTable) ([]GeoPoint, error) {
	c, err := t.columns("geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng", "geolocation_city", "geolocation_state")
	if err != nil {
		return nil, err
	}
	type geoKey struct {
		zip      string
		lat, lng float64
	}
	seen := make(map[geoKey]struct{}, len(t.rows))
	out := make([]GeoPoint, 0, len(t.rows))
	for _, row := range t.rows {
		p := GeoPoint{ZipPrefix: cell(row, c[0]), City: cell(row, c[3]), State: cell(row, c[4])}
		p.Lat, _ = parseFloat(cell(row, c[1]))
		p.Lng, _ = parseFloat(cell(row, c[2]))
		k := geoKey{zip: p.ZipPrefix, lat: p.Lat, lng: p.Lng}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func cleanTranslations(t *rawTable) ([]Translation, error) {
	c, err := t.columns("product_category_name", "product_category_name_english")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]Translation, 0, len(t.rows))
	for _, row := range t.rows {
		tr := Translation{Category: cell(row, c[0]), English: cell(row, c[1])}
		if tr.Category == "" || tr.English == "" {
			continue
		}
		if _, dup := seen[tr.Category]; dup {
			continue
		}
		seen[tr.Category] = struct{}{}
		out = append(out, tr)
	}
	return out, nil
}
