package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/ledger"
)

func TestLookupsAndUniqueness(t *testing.T) {
	s := New()
	s.PutProduct(&ledger.Product{ID: "prd-1", Code: "LT-100", Name: "Laptop"})
	s.PutProduct(&ledger.Product{ID: "prd-2", Code: "MS-200", Name: "Mouse"})
	s.PutCustomer(&ledger.Customer{ID: "cus-1", Phone: "0511111111", Name: "Ahmed"})

	p, ok := s.ProductByCode("MS-200")
	require.True(t, ok)
	assert.Equal(t, "prd-2", p.ID)

	_, ok = s.ProductByCode("XX-999")
	assert.False(t, ok)

	c, ok := s.CustomerByPhone("0511111111")
	require.True(t, ok)
	assert.Equal(t, "cus-1", c.ID)

	_, ok = s.CustomerByPhone("0599999999")
	assert.False(t, ok)

	_, ok = s.Sale("sal-missing")
	assert.False(t, ok)
}

func TestCollectionsSortedByID(t *testing.T) {
	s := New()
	s.PutSale(&ledger.Sale{ID: "sal-3"})
	s.PutSale(&ledger.Sale{ID: "sal-1"})
	s.PutSale(&ledger.Sale{ID: "sal-2"})

	sales := s.Sales()
	require.Len(t, sales, 3)
	assert.Equal(t, "sal-1", sales[0].ID)
	assert.Equal(t, "sal-2", sales[1].ID)
	assert.Equal(t, "sal-3", sales[2].ID)
	assert.Equal(t, 3, s.SaleCount())
}

func TestSequenceCountersNeverRewind(t *testing.T) {
	s := New()

	assert.Equal(t, 1, s.NextInvoiceSeq(2025))
	assert.Equal(t, 2, s.NextInvoiceSeq(2025))
	assert.Equal(t, 1, s.NextInvoiceSeq(2026)) // independent per year

	// Deleting a sale does not free its number.
	s.PutSale(&ledger.Sale{ID: "sal-1", InvoiceNumber: ledger.FormatInvoiceNumber(2025, 2)})
	s.RemoveSale("sal-1")
	assert.Equal(t, 3, s.NextInvoiceSeq(2025))

	assert.Equal(t, 1, s.NextContractSeq(2025))
	assert.Equal(t, 2, s.NextContractSeq(2025))
}

func TestSequenceCountersSurviveSnapshot(t *testing.T) {
	s := New()
	s.NextInvoiceSeq(2025)
	s.NextInvoiceSeq(2025)
	s.NextContractSeq(2025)

	snap := s.Snapshot(nil)
	restored := FromSnapshot(snap)

	assert.Equal(t, 3, restored.NextInvoiceSeq(2025))
	assert.Equal(t, 2, restored.NextContractSeq(2025))
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	s.PutProduct(&ledger.Product{ID: "prd-1", Code: "LT-100", Stock: 4, MinStock: 5, Status: ledger.ProductLowStock})
	s.PutCustomer(&ledger.Customer{ID: "cus-1", Phone: "0511111111", TotalPurchases: decimal.NewFromInt(200)})
	s.PutSale(&ledger.Sale{ID: "sal-1", CustomerID: "cus-1", ProductID: "prd-1", Total: decimal.NewFromInt(200)})
	s.PutContract(&ledger.Contract{ID: "con-1", CustomerID: "cus-1", Status: ledger.ContractActive})
	s.AppendStockLog(ledger.StockAdjustment{ID: "adj-1", ProductID: "prd-1", Kind: ledger.StockAdd, Amount: 2})

	snap := s.Snapshot([]ledger.NotificationEvent{{ID: "ntf-1", Kind: ledger.EventInfo}})
	require.Len(t, snap.Sales, 1)
	require.Len(t, snap.Notifications, 1)

	restored := FromSnapshot(snap)
	sale, ok := restored.Sale("sal-1")
	require.True(t, ok)
	assert.Equal(t, "cus-1", sale.CustomerID)

	log := restored.StockLog()
	require.Len(t, log, 1)
	assert.Equal(t, ledger.StockAdd, log[0].Kind)
}

func TestSnapshotCopiesEntities(t *testing.T) {
	s := New()
	p := &ledger.Product{ID: "prd-1", Stock: 10}
	s.PutProduct(p)

	snap := s.Snapshot(nil)
	p.Stock = 99

	assert.Equal(t, 10, snap.Products[0].Stock)
}

func TestReplaceSwapsAllState(t *testing.T) {
	dst := New()
	dst.PutSale(&ledger.Sale{ID: "sal-old"})

	src := New()
	src.PutSale(&ledger.Sale{ID: "sal-new"})
	settings := src.Settings()
	settings.LowStockThreshold = 9
	src.SetSettings(settings)

	dst.Replace(src)

	_, ok := dst.Sale("sal-old")
	assert.False(t, ok)
	_, ok = dst.Sale("sal-new")
	assert.True(t, ok)
	assert.Equal(t, 9, dst.Settings().LowStockThreshold)
}
