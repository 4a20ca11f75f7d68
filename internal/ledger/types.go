package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the derived availability state of a product.
// It is always a pure function of (Stock, MinStock); see DeriveStatus.
type ProductStatus string

const (
	ProductAvailable   ProductStatus = "available"
	ProductLowStock    ProductStatus = "low-stock"
	ProductUnavailable ProductStatus = "unavailable"
)

// CustomerType classifies a customer for reporting purposes.
type CustomerType string

const (
	CustomerIndividual CustomerType = "individual"
	CustomerCompany    CustomerType = "company"
	CustomerGovernment CustomerType = "government"
)

// Sale statuses. Migrated records default to SaleCompleted.
const (
	SaleCompleted = "Completed"
	SalePending   = "Pending"
	SaleCancelled = "Cancelled"
)

// Contract statuses. Anything that is neither Active nor Expired is
// carried through verbatim ("Other" in reporting).
const (
	ContractActive  = "Active"
	ContractExpired = "Expired"
)

// Product is a sellable item with tracked inventory.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"` // unique across products
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Stock     int             `json:"stock"`    // units on hand, never negative
	MinStock  int             `json:"minStock"` // low-stock threshold
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Status    ProductStatus   `json:"status"` // derived, see DeriveStatus
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Customer is a buying party. TotalPurchases is maintained by the engine as
// the exact sum of Total over all live sales referencing the customer.
type Customer struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"` // unique across customers
	Email            string          `json:"email,omitempty"`
	Company          string          `json:"company,omitempty"`
	Type             CustomerType    `json:"type"`
	TotalPurchases   decimal.Decimal `json:"totalPurchases"`
	RegistrationDate string          `json:"registrationDate"` // YYYY-MM-DD
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Sale records one sold line of one product to one customer.
// Total is always Quantity x Price exactly.
type Sale struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"` // INV-{year}-{seq:04d}, never reused
	CustomerID    string          `json:"customerId"`
	ProductID     string          `json:"productId"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"` // unit price at sale time
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Contract is a service agreement with a customer.
//
// EndDate is accepted from input and may diverge from StartDate+Duration;
// divergence is surfaced as a data-quality warning, never rejected.
type Contract struct {
	ID             string          `json:"id"`
	ContractNumber string          `json:"contractNumber"` // CONT-{year}-{seq:03d}, never reused
	CustomerID     string          `json:"customerId"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	Duration       int             `json:"duration"` // months
	StartDate      string          `json:"startDate"` // YYYY-MM-DD
	EndDate        string          `json:"endDate"`   // YYYY-MM-DD
	Status         string          `json:"status"`
	Details        string          `json:"details,omitempty"`
	Terms          string          `json:"terms,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// EventKind categorizes a notification event.
type EventKind string

const (
	EventSuccess  EventKind = "success"
	EventError    EventKind = "error"
	EventWarning  EventKind = "warning"
	EventInfo     EventKind = "info"
	EventActivity EventKind = "activity"
)

// EntityKind tags which collection an entity reference points into.
type EntityKind string

const (
	KindSale     EntityKind = "sale"
	KindProduct  EntityKind = "product"
	KindCustomer EntityKind = "customer"
	KindContract EntityKind = "contract"
)

// EntityRef links a notification event to the entity it is about.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// NotificationEvent is one append-only audit ledger entry. Read is the only
// field that may be mutated after append; message content is never rewritten.
type NotificationEvent struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Kind      EventKind  `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
	Read      bool       `json:"read"`
	Ref       *EntityRef `json:"ref,omitempty"`
}

// StockAdjustmentKind is the manual stock operation applied.
type StockAdjustmentKind string

const (
	StockAdd    StockAdjustmentKind = "add"
	StockRemove StockAdjustmentKind = "remove"
	StockSet    StockAdjustmentKind = "set"
)

// StockAdjustment is one entry of the manual stock audit log, kept separate
// from the sales history.
type StockAdjustment struct {
	ID        string              `json:"id"`
	ProductID string              `json:"productId"`
	Kind      StockAdjustmentKind `json:"kind"`
	Amount    int                 `json:"amount"`
	PrevStock int                 `json:"prevStock"`
	NewStock  int                 `json:"newStock"`
	Reason    string              `json:"reason,omitempty"`
	At        time.Time           `json:"at"`
}

// AlertToggles enables or disables outbound delivery per event category.
// Toggles never suppress ledger appends, only outbound alerts.
type AlertToggles struct {
	Sales     bool `json:"sales"`
	Stock     bool `json:"stock"`
	Contracts bool `json:"contracts"`
}

// Settings holds user-tunable behavior persisted inside the snapshot.
// An empty Secret means no authorization is configured.
type Settings struct {
	Secret            string       `json:"secret,omitempty"`
	LowStockThreshold int          `json:"lowStockThreshold"`
	ContractAlertDays int          `json:"contractAlertDays"`
	Alerts            AlertToggles `json:"alerts"`
}

// DefaultSettings returns the settings applied to a fresh snapshot.
func DefaultSettings() Settings {
	return Settings{
		LowStockThreshold: 5,
		ContractAlertDays: 30,
		Alerts:            AlertToggles{Sales: true, Stock: true, Contracts: true},
	}
}

// Metadata tracks snapshot bookkeeping: schema version, persistence stamps
// and the per-year document sequence counters.
//
// Sequence counters only ever grow. Deleting a sale or contract must never
// free its number for reuse, so counts cannot be derived from collection
// sizes.
type Metadata struct {
	SchemaVersion int            `json:"schemaVersion"`
	LastSaved     *time.Time     `json:"lastSaved,omitempty"`
	LastLoaded    *time.Time     `json:"lastLoaded,omitempty"`
	MigratedAt    *time.Time     `json:"migratedAt,omitempty"`
	InvoiceSeq    map[string]int `json:"invoiceSeq,omitempty"`  // year -> last issued seq
	ContractSeq   map[string]int `json:"contractSeq,omitempty"` // year -> last issued seq
}
