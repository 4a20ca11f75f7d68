package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/ledger"
)

func TestAddSaleCommitsAllEffects(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	sale, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   3,
		Price:      decimal.NewFromInt(25),
		Date:       "2025-06-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-0001", sale.InvoiceNumber)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, "cash", sale.PaymentMethod)
	assert.Equal(t, ledger.SaleCompleted, sale.Status)

	assert.Equal(t, 7, prod.Stock)
	assert.Equal(t, ledger.ProductAvailable, prod.Status)
	assert.True(t, cust.TotalPurchases.Equal(decimal.NewFromInt(75)))
	assert.Contains(t, eventTitles(e), "Sale recorded")
}

func TestAddSaleInvoiceNumbersPerYear(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 100)

	add := func(date string) *ledger.Sale {
		sale, err := e.AddSale(context.Background(), SaleInput{
			CustomerID: cust.ID,
			ProductID:  prod.ID,
			Quantity:   1,
			Price:      decimal.NewFromInt(10),
			Date:       date,
		})
		require.NoError(t, err)
		return sale
	}

	assert.Equal(t, "INV-2024-0001", add("2024-12-31").InvoiceNumber)
	assert.Equal(t, "INV-2025-0001", add("2025-01-05").InvoiceNumber)
	assert.Equal(t, "INV-2025-0002", add("2025-01-06").InvoiceNumber)
}

func TestAddSaleInvoiceNumberNeverReused(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 100)

	in := SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   1,
		Price:      decimal.NewFromInt(10),
		Date:       "2025-06-01",
	}
	first, err := e.AddSale(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, e.DeleteSale(context.Background(), first.ID))

	second, err := e.AddSale(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0002", second.InvoiceNumber)
}

func TestAddSaleRejectsInsufficientStock(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 2)

	_, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   3,
		Price:      decimal.NewFromInt(10),
	})

	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, 2, prod.Stock)
	assert.True(t, cust.TotalPurchases.IsZero())
	assert.Equal(t, 0, e.Store().SaleCount())
}

func TestAddSaleRejectsUnknownReferences(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	_, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: "cus-missing",
		ProductID:  prod.ID,
		Quantity:   1,
		Price:      decimal.NewFromInt(10),
	})
	assert.True(t, IsNotFound(err))

	_, err = e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  "prd-missing",
		Quantity:   1,
		Price:      decimal.NewFromInt(10),
	})
	assert.True(t, IsNotFound(err))
}

func TestAddSaleValidation(t *testing.T) {
	e, _ := newTestEngine()

	tests := []struct {
		name string
		in   SaleInput
	}{
		{"missing customer", SaleInput{ProductID: "prd-1", Quantity: 1}},
		{"missing product", SaleInput{CustomerID: "cus-1", Quantity: 1}},
		{"zero quantity", SaleInput{CustomerID: "cus-1", ProductID: "prd-1", Quantity: 0}},
		{"negative quantity", SaleInput{CustomerID: "cus-1", ProductID: "prd-1", Quantity: -2}},
		{"negative price", SaleInput{CustomerID: "cus-1", ProductID: "prd-1", Quantity: 1, Price: decimal.NewFromInt(-1)}},
		{"bad date", SaleInput{CustomerID: "cus-1", ProductID: "prd-1", Quantity: 1, Date: "06/01/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.AddSale(context.Background(), tt.in)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestAddSaleTriggersLowStockWarning(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 3) // MinStock 2

	_, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   2,
		Price:      decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, prod.Stock)
	assert.Equal(t, ledger.ProductLowStock, prod.Status)
	assert.Contains(t, eventTitles(e), "Low stock")
}

func TestUpdateSaleRepricesAndRestocks(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	sale, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   4,
		Price:      decimal.NewFromInt(10),
		Date:       "2025-06-01",
	})
	require.NoError(t, err)
	require.Equal(t, 6, prod.Stock)

	updated, err := e.UpdateSale(context.Background(), sale.ID, SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   2,
		Price:      decimal.NewFromInt(30),
		Date:       "2025-06-02",
	})
	require.NoError(t, err)

	assert.Equal(t, sale.ID, updated.ID)
	assert.Equal(t, "INV-2025-0001", updated.InvoiceNumber, "invoice number survives updates")
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 8, prod.Stock)
	assert.True(t, cust.TotalPurchases.Equal(decimal.NewFromInt(60)))
}

func TestUpdateSaleMovesEffectsAcrossProducts(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prodA := seedProduct(t, e, "LT-100", 10)
	prodB := seedProduct(t, e, "MS-200", 5)

	sale, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prodA.ID,
		Quantity:   4,
		Price:      decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = e.UpdateSale(context.Background(), sale.ID, SaleInput{
		CustomerID: cust.ID,
		ProductID:  prodB.ID,
		Quantity:   2,
		Price:      decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, prodA.Stock, "old product fully credited back")
	assert.Equal(t, 3, prodB.Stock)
}

func TestUpdateSaleFailureLeavesNoNetChange(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	sale, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   4,
		Price:      decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// 6 on hand + 4 credited back = 10 available; 20 is still too many.
	_, err = e.UpdateSale(context.Background(), sale.ID, SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   20,
		Price:      decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	assert.Equal(t, 6, prod.Stock)
	assert.True(t, cust.TotalPurchases.Equal(decimal.NewFromInt(40)))
	got, ok := e.Store().Sale(sale.ID)
	require.True(t, ok)
	assert.Equal(t, 4, got.Quantity)
}

func TestUpdateSaleUnknownTargetsUndoReversal(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	sale, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   4,
		Price:      decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = e.UpdateSale(context.Background(), sale.ID, SaleInput{
		CustomerID: "cus-missing",
		ProductID:  prod.ID,
		Quantity:   1,
		Price:      decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	assert.Equal(t, 6, prod.Stock)
	assert.True(t, cust.TotalPurchases.Equal(decimal.NewFromInt(40)))
}

func TestUpdateSaleIdenticalInputIsStable(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	in := SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   4,
		Price:      decimal.NewFromInt(10),
		Date:       "2025-06-01",
	}
	sale, err := e.AddSale(context.Background(), in)
	require.NoError(t, err)

	_, err = e.UpdateSale(context.Background(), sale.ID, in)
	require.NoError(t, err)

	assert.Equal(t, 6, prod.Stock)
	assert.True(t, cust.TotalPurchases.Equal(decimal.NewFromInt(40)))
}

func TestUpdateSaleNotFound(t *testing.T) {
	e, _ := newTestEngine()
	_, err := e.UpdateSale(context.Background(), "sal-missing", SaleInput{})
	assert.True(t, IsNotFound(err))
}

func TestDeleteSaleRestoresState(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	sale, err := e.AddSale(context.Background(), SaleInput{
		CustomerID: cust.ID,
		ProductID:  prod.ID,
		Quantity:   4,
		Price:      decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	require.NoError(t, e.DeleteSale(context.Background(), sale.ID))

	assert.Equal(t, 10, prod.Stock)
	assert.True(t, cust.TotalPurchases.IsZero())
	assert.Equal(t, 0, e.Store().SaleCount())

	assert.True(t, IsNotFound(e.DeleteSale(context.Background(), sale.ID)))
}

func TestBulkDeleteSales(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")
	prod := seedProduct(t, e, "LT-100", 10)

	for i := 0; i < 3; i++ {
		_, err := e.AddSale(context.Background(), SaleInput{
			CustomerID: cust.ID,
			ProductID:  prod.ID,
			Quantity:   2,
			Price:      decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}
	require.Equal(t, 4, prod.Stock)

	n, err := e.BulkDeleteSales(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, 0, e.Store().SaleCount())
	assert.Equal(t, 10, prod.Stock)
	assert.True(t, cust.TotalPurchases.IsZero())
}
