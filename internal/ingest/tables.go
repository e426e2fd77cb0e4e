// Package ingest loads, cleans and joins the Olist CSV tables into order facts.
package ingest

import "time"

// Table names a source dataset.
type Table string

const (
	Orders              Table = "orders"
	OrderItems          Table = "order_items"
	Payments            Table = "payments"
	Customers           Table = "customers"
	Reviews             Table = "reviews"
	Products            Table = "products"
	Sellers             Table = "sellers"
	Geolocation         Table = "geolocation"
	CategoryTranslation Table = "category_translation"
)

// AllTables lists every table in load order.
var AllTables = []Table{
	Customers, OrderItems, Payments, Orders, Reviews,
	Products, Sellers, Geolocation, CategoryTranslation,
}

// DefaultFiles maps each table to its file name in the public Olist release.
var DefaultFiles = map[Table]string{
	Orders:              "olist_orders_dataset.csv",
	OrderItems:          "olist_order_items_dataset.csv",
	Payments:            "olist_order_payments_dataset.csv",
	Customers:           "olist_customers_dataset.csv",
	Reviews:             "olist_order_reviews_dataset.csv",
	Products:            "olist_products_dataset.csv",
	Sellers:             "olist_sellers_dataset.csv",
	Geolocation:         "olist_geolocation_dataset.csv",
	CategoryTranslation: "product_category_name_translation.csv",
}

// Null timestamps are the zero time.

type Order struct {
	OrderID             string
	CustomerID          string
	Status              string
	PurchasedAt         time.Time
	ApprovedAt          time.Time
	DeliveredCarrierAt  time.Time
	DeliveredCustomerAt time.Time
	EstimatedDeliveryAt time.Time
}

type OrderItem struct {
	OrderID     string
	OrderItemID int
	ProductID   string
	SellerID    string
	Price       float64
	Freight     float64
}

type Payment struct {
	OrderID      string
	Sequential   int
	Type         string
	Installments int
	Value        float64
}

type Customer struct {
	CustomerID string
	UniqueID   string
	ZipPrefix  string
	City       string
	State      string
}

type Review struct {
	ReviewID   string
	OrderID    string
	Score      int
	CreatedAt  time.Time
	AnsweredAt time.Time
}

type Product struct {
	ProductID string
	Category  string
}

type Seller struct {
	SellerID  string
	ZipPrefix string
	City      string
	State     string
}

type GeoPoint struct {
	ZipPrefix string
	Lat       float64
	Lng       float64
	City      string
	State     string
}

type Translation struct {
	Category string
	English  string
}

// Stats records how many rows of a table survived cleaning.
type Stats struct {
	Table Table
	Path  string
	Read  int
	Kept  int
}

// Dataset is the cleaned content of every table.
type Dataset struct {
	Orders       []Order
	Items        []OrderItem
	Payments     []Payment
	Customers    []Customer
	Reviews      []Review
	Products     []Product
	Sellers      []Seller
	Geolocations []GeoPoint
	Translations []Translation

	Stats []Stats
}
