package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daftarhq/daftar/internal/ledger"
)

// SaleInput is the typed DTO for creating or updating a sale. The UI layer
// constructs it; the engine never reads presentation state.
type SaleInput struct {
	CustomerID    string
	ProductID     string
	Quantity      int
	Price         decimal.Decimal // unit price
	PaymentMethod string          // defaults to "cash"
	Date          string          // YYYY-MM-DD, defaults to today
	Status        string          // defaults to Completed
	Notes         string
}

func (in *SaleInput) validate() error {
	if in.CustomerID == "" {
		return errValidation("customerId is required")
	}
	if in.ProductID == "" {
		return errValidation("productId is required")
	}
	if in.Quantity <= 0 {
		return errValidation("quantity must be positive, got %d", in.Quantity)
	}
	if in.Price.IsNegative() {
		return errValidation("price must not be negative, got %s", in.Price)
	}
	if in.Date != "" && !ledger.ValidDate(in.Date) {
		return errValidation("date %q is not a valid YYYY-MM-DD date", in.Date)
	}
	return nil
}

func (in *SaleInput) withDefaults(now time.Time) SaleInput {
	out := *in
	if out.PaymentMethod == "" {
		out.PaymentMethod = "cash"
	}
	if out.Date == "" {
		out.Date = now.Format(ledger.DateLayout)
	}
	if out.Status == "" {
		out.Status = ledger.SaleCompleted
	}
	return out
}

// total computes the exact sale total.
func (in *SaleInput) total() decimal.Decimal {
	return in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
}

// yearOf is the calendar year a document number is sequenced under.
func yearOf(date string) int {
	t, err := time.Parse(ledger.DateLayout, date)
	if err != nil {
		return 0
	}
	return t.Year()
}

// AddSale records a new sale: decrements product stock, increments the
// customer's lifetime total, issues the next invoice number for the year.
// Gated. All side effects commit together or not at all.
func (e *Engine) AddSale(ctx context.Context, in SaleInput) (*ledger.Sale, error) {
	if err := e.begin(ctx, "add sale", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := in.validate(); err != nil {
		return nil, e.fail("Sale rejected", err)
	}
	cust, ok := e.store.Customer(in.CustomerID)
	if !ok {
		return nil, e.fail("Sale rejected", errNotFound(ledger.KindCustomer, in.CustomerID))
	}
	prod, ok := e.store.Product(in.ProductID)
	if !ok {
		return nil, e.fail("Sale rejected", errNotFound(ledger.KindProduct, in.ProductID))
	}
	if prod.Stock < in.Quantity {
		return nil, e.fail("Sale rejected",
			errConflict(ledger.KindProduct, "insufficient stock: have %d, need %d", prod.Stock, in.Quantity))
	}

	// Nothing can fail past this point; all effects below commit together.
	now := e.now()
	in = in.withDefaults(now)
	total := in.total()
	year := yearOf(in.Date)
	sale := &ledger.Sale{
		ID:            e.newID(ledger.PrefixSale),
		InvoiceNumber: ledger.FormatInvoiceNumber(year, e.store.NextInvoiceSeq(year)),
		CustomerID:    in.CustomerID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		Price:         in.Price,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
		Status:        in.Status,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	prod.Stock -= in.Quantity
	prod.Status = ledger.DeriveStatus(prod.Stock, prod.MinStock)
	prod.UpdatedAt = now
	cust.TotalPurchases = cust.TotalPurchases.Add(total)
	cust.UpdatedAt = now
	e.store.PutSale(sale)

	msg := fmt.Sprintf("%s: %d x %s to %s for %s", sale.InvoiceNumber, sale.Quantity, prod.Name, cust.Name, sale.Total)
	e.events.Append(ledger.EventActivity, "Sale recorded", msg, &ledger.EntityRef{Kind: ledger.KindSale, ID: sale.ID})
	e.alert(ctx, alertSales, msg)
	e.lowStockCheck(ctx, prod)
	e.persist(ctx)
	return sale, nil
}

// UpdateSale rewrites an existing sale as a compensating transaction: the
// old sale's effects are speculatively reversed, the new input is checked
// against the credited-back state, and on any failure the reversal is
// undone exactly. Callers observe no net change on failure. Gated.
func (e *Engine) UpdateSale(ctx context.Context, id string, in SaleInput) (*ledger.Sale, error) {
	if err := e.begin(ctx, "update sale", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	sale, ok := e.store.Sale(id)
	if !ok {
		return nil, e.fail("Sale update rejected", errNotFound(ledger.KindSale, id))
	}

	// Speculative reversal of the old effects. The linked records can be
	// absent in drifted data; reversal then skips them.
	oldProd, _ := e.store.Product(sale.ProductID)
	oldCust, _ := e.store.Customer(sale.CustomerID)
	if oldProd != nil {
		oldProd.Stock += sale.Quantity
	}
	if oldCust != nil {
		oldCust.TotalPurchases = oldCust.TotalPurchases.Sub(sale.Total)
	}
	undo := func() {
		if oldProd != nil {
			oldProd.Stock -= sale.Quantity
		}
		if oldCust != nil {
			oldCust.TotalPurchases = oldCust.TotalPurchases.Add(sale.Total)
		}
	}

	if err := in.validate(); err != nil {
		undo()
		return nil, e.fail("Sale update rejected", err)
	}
	newCust, ok := e.store.Customer(in.CustomerID)
	if !ok {
		undo()
		return nil, e.fail("Sale update rejected", errNotFound(ledger.KindCustomer, in.CustomerID))
	}
	newProd, ok := e.store.Product(in.ProductID)
	if !ok {
		undo()
		return nil, e.fail("Sale update rejected", errNotFound(ledger.KindProduct, in.ProductID))
	}
	// If the product is unchanged its stock was already credited back above,
	// so this check naturally accounts for the units the old sale held.
	if newProd.Stock < in.Quantity {
		undo()
		return nil, e.fail("Sale update rejected",
			errConflict(ledger.KindProduct, "insufficient stock: have %d, need %d", newProd.Stock, in.Quantity))
	}

	now := e.now()
	in = in.withDefaults(now)
	oldTotal := sale.Total
	total := in.total()

	newProd.Stock -= in.Quantity
	newProd.Status = ledger.DeriveStatus(newProd.Stock, newProd.MinStock)
	newProd.UpdatedAt = now
	if oldProd != nil && oldProd != newProd {
		oldProd.Status = ledger.DeriveStatus(oldProd.Stock, oldProd.MinStock)
		oldProd.UpdatedAt = now
	}
	newCust.TotalPurchases = newCust.TotalPurchases.Add(total)
	newCust.UpdatedAt = now
	if oldCust != nil && oldCust != newCust {
		oldCust.UpdatedAt = now
	}

	sale.CustomerID = in.CustomerID
	sale.ProductID = in.ProductID
	sale.Quantity = in.Quantity
	sale.Price = in.Price
	sale.Total = total
	sale.PaymentMethod = in.PaymentMethod
	sale.Date = in.Date
	sale.Status = in.Status
	sale.Notes = in.Notes
	sale.UpdatedAt = now

	msg := fmt.Sprintf("%s updated: total %s -> %s", sale.InvoiceNumber, oldTotal, total)
	e.events.Append(ledger.EventSuccess, "Sale updated", msg, &ledger.EntityRef{Kind: ledger.KindSale, ID: sale.ID})
	e.alert(ctx, alertSales, msg)
	e.lowStockCheck(ctx, newProd)
	e.persist(ctx)
	return sale, nil
}

// DeleteSale removes a sale and restores the linked product stock and
// customer total. Once the sale is found this cannot fail: restoration
// only returns quantities and totals the sale previously took. Gated.
func (e *Engine) DeleteSale(ctx context.Context, id string) error {
	if err := e.begin(ctx, "delete sale", true); err != nil {
		return err
	}
	defer e.mu.Unlock()

	sale, ok := e.store.Sale(id)
	if !ok {
		return e.fail("Sale delete rejected", errNotFound(ledger.KindSale, id))
	}
	e.deleteSaleLocked(sale)
	e.events.Append(ledger.EventActivity, "Sale deleted",
		fmt.Sprintf("%s removed, stock and customer total restored", sale.InvoiceNumber),
		&ledger.EntityRef{Kind: ledger.KindSale, ID: sale.ID})
	e.persist(ctx)
	return nil
}

// deleteSaleLocked restores a sale's side effects and removes it.
// Callers hold e.mu and have located the sale.
func (e *Engine) deleteSaleLocked(sale *ledger.Sale) {
	now := e.now()
	if prod, ok := e.store.Product(sale.ProductID); ok {
		prod.Stock += sale.Quantity
		prod.Status = ledger.DeriveStatus(prod.Stock, prod.MinStock)
		prod.UpdatedAt = now
	}
	if cust, ok := e.store.Customer(sale.CustomerID); ok {
		cust.TotalPurchases = cust.TotalPurchases.Sub(sale.Total)
		cust.UpdatedAt = now
	}
	e.store.RemoveSale(sale.ID)
}
