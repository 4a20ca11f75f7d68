package store

import (
	"sort"
	"strconv"

	"github.com/daftarhq/daftar/internal/ledger"
)

// Store holds every entity collection plus settings, metadata and the
// manual stock-adjustment log. It is not safe for concurrent use; the
// engine serializes all access behind its single-flight lock.
type Store struct {
	sales     map[string]*ledger.Sale
	products  map[string]*ledger.Product
	customers map[string]*ledger.Customer
	contracts map[string]*ledger.Contract

	stockLog []ledger.StockAdjustment
	settings ledger.Settings
	metadata ledger.Metadata
}

// New creates an empty store at the current schema version.
func New() *Store {
	return &Store{
		sales:     make(map[string]*ledger.Sale),
		products:  make(map[string]*ledger.Product),
		customers: make(map[string]*ledger.Customer),
		contracts: make(map[string]*ledger.Contract),
		stockLog:  []ledger.StockAdjustment{},
		settings:  ledger.DefaultSettings(),
		metadata:  ledger.Metadata{SchemaVersion: ledger.SchemaVersion},
	}
}

// FromSnapshot builds a store from decoded snapshot collections.
// Notifications are not absorbed here; the notification ledger owns them.
func FromSnapshot(snap *ledger.Snapshot) *Store {
	s := New()
	for i := range snap.Sales {
		sale := snap.Sales[i]
		s.sales[sale.ID] = &sale
	}
	for i := range snap.Products {
		p := snap.Products[i]
		s.products[p.ID] = &p
	}
	for i := range snap.Customers {
		c := snap.Customers[i]
		s.customers[c.ID] = &c
	}
	for i := range snap.Contracts {
		c := snap.Contracts[i]
		s.contracts[c.ID] = &c
	}
	s.stockLog = append(s.stockLog[:0], snap.StockLog...)
	s.settings = snap.Settings
	s.metadata = snap.Metadata
	return s
}

// Replace swaps this store's entire contents with another store's.
// Used by import, which stages the incoming state fully before swapping.
func (s *Store) Replace(other *Store) {
	s.sales = other.sales
	s.products = other.products
	s.customers = other.customers
	s.contracts = other.contracts
	s.stockLog = other.stockLog
	s.settings = other.settings
	s.metadata = other.metadata
}

// Sale lookups and mutation.

func (s *Store) Sale(id string) (*ledger.Sale, bool) {
	v, ok := s.sales[id]
	return v, ok
}

func (s *Store) PutSale(v *ledger.Sale) { s.sales[v.ID] = v }
func (s *Store) RemoveSale(id string)   { delete(s.sales, id) }
func (s *Store) SaleCount() int         { return len(s.sales) }

// Sales returns all sales sorted by id.
func (s *Store) Sales() []*ledger.Sale {
	out := make([]*ledger.Sale, 0, len(s.sales))
	for _, v := range s.sales {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Product lookups and mutation.

func (s *Store) Product(id string) (*ledger.Product, bool) {
	v, ok := s.products[id]
	return v, ok
}

// ProductByCode returns the product with the given unique code, if any.
func (s *Store) ProductByCode(code string) (*ledger.Product, bool) {
	for _, v := range s.products {
		if v.Code == code {
			return v, true
		}
	}
	return nil, false
}

func (s *Store) PutProduct(v *ledger.Product) { s.products[v.ID] = v }
func (s *Store) RemoveProduct(id string)      { delete(s.products, id) }

func (s *Store) Products() []*ledger.Product {
	out := make([]*ledger.Product, 0, len(s.products))
	for _, v := range s.products {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Customer lookups and mutation.

func (s *Store) Customer(id string) (*ledger.Customer, bool) {
	v, ok := s.customers[id]
	return v, ok
}

// CustomerByPhone returns the customer with the given unique phone, if any.
func (s *Store) CustomerByPhone(phone string) (*ledger.Customer, bool) {
	for _, v := range s.customers {
		if v.Phone == phone {
			return v, true
		}
	}
	return nil, false
}

func (s *Store) PutCustomer(v *ledger.Customer) { s.customers[v.ID] = v }
func (s *Store) RemoveCustomer(id string)       { delete(s.customers, id) }

func (s *Store) Customers() []*ledger.Customer {
	out := make([]*ledger.Customer, 0, len(s.customers))
	for _, v := range s.customers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Contract lookups and mutation.

func (s *Store) Contract(id string) (*ledger.Contract, bool) {
	v, ok := s.contracts[id]
	return v, ok
}

func (s *Store) PutContract(v *ledger.Contract) { s.contracts[v.ID] = v }
func (s *Store) RemoveContract(id string)       { delete(s.contracts, id) }

func (s *Store) Contracts() []*ledger.Contract {
	out := make([]*ledger.Contract, 0, len(s.contracts))
	for _, v := range s.contracts {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stock adjustment log (append-only).

func (s *Store) AppendStockLog(a ledger.StockAdjustment) { s.stockLog = append(s.stockLog, a) }

// StockLog returns the adjustment log in append order.
func (s *Store) StockLog() []ledger.StockAdjustment {
	out := make([]ledger.StockAdjustment, len(s.stockLog))
	copy(out, s.stockLog)
	return out
}

// Settings and metadata.

func (s *Store) Settings() ledger.Settings     { return s.settings }
func (s *Store) SetSettings(v ledger.Settings) { s.settings = v }
func (s *Store) Metadata() ledger.Metadata     { return s.metadata }
func (s *Store) SetMetadata(v ledger.Metadata) { s.metadata = v }

// NextInvoiceSeq issues the next invoice sequence number for a year.
// The counter is persisted in metadata and never rewinds.
func (s *Store) NextInvoiceSeq(year int) int {
	if s.metadata.InvoiceSeq == nil {
		s.metadata.InvoiceSeq = make(map[string]int)
	}
	key := strconv.Itoa(year)
	s.metadata.InvoiceSeq[key]++
	return s.metadata.InvoiceSeq[key]
}

// NextContractSeq issues the next contract sequence number for a year.
func (s *Store) NextContractSeq(year int) int {
	if s.metadata.ContractSeq == nil {
		s.metadata.ContractSeq = make(map[string]int)
	}
	key := strconv.Itoa(year)
	s.metadata.ContractSeq[key]++
	return s.metadata.ContractSeq[key]
}

// Snapshot assembles the persistable state of the store. Notifications are
// supplied by the caller (the notification ledger owns them).
func (s *Store) Snapshot(notifications []ledger.NotificationEvent) *ledger.Snapshot {
	snap := &ledger.Snapshot{
		Sales:         make([]ledger.Sale, 0, len(s.sales)),
		Products:      make([]ledger.Product, 0, len(s.products)),
		Customers:     make([]ledger.Customer, 0, len(s.customers)),
		Contracts:     make([]ledger.Contract, 0, len(s.contracts)),
		Notifications: notifications,
		StockLog:      s.StockLog(),
		Settings:      s.settings,
		Metadata:      s.metadata,
	}
	for _, v := range s.sales {
		snap.Sales = append(snap.Sales, *v)
	}
	for _, v := range s.products {
		snap.Products = append(snap.Products, *v)
	}
	for _, v := range s.customers {
		snap.Customers = append(snap.Customers, *v)
	}
	for _, v := range s.contracts {
		snap.Contracts = append(snap.Contracts, *v)
	}
	if snap.Notifications == nil {
		snap.Notifications = []ledger.NotificationEvent{}
	}
	snap.Normalize()
	return snap
}
