package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/daftarhq/daftar/internal/ledger"
)

// defaultCostRatio estimates cost when input leaves it unset.
var defaultCostRatio = decimal.NewFromFloat(0.7)

// ProductInput is the typed DTO for creating or updating a product.
// Status never appears here: it is derived, not supplied.
type ProductInput struct {
	Name     string
	Code     string
	Price    decimal.Decimal
	Cost     decimal.Decimal // defaults to 0.7 * Price
	Stock    int
	MinStock int
	Category string
	Unit     string
}

func (in *ProductInput) validate() error {
	if in.Name == "" {
		return errValidation("name is required")
	}
	if in.Code == "" {
		return errValidation("code is required")
	}
	if in.Price.IsNegative() {
		return errValidation("price must not be negative, got %s", in.Price)
	}
	if in.Cost.IsNegative() {
		return errValidation("cost must not be negative, got %s", in.Cost)
	}
	if in.Stock < 0 {
		return errValidation("stock must not be negative, got %d", in.Stock)
	}
	if in.MinStock < 0 {
		return errValidation("minStock must not be negative, got %d", in.MinStock)
	}
	return nil
}

// AddProduct creates a product. Codes are unique across products; status
// is derived from the supplied stock levels. A zero MinStock falls back to
// the settings low-stock threshold. Gated.
func (e *Engine) AddProduct(ctx context.Context, in ProductInput) (*ledger.Product, error) {
	if err := e.begin(ctx, "add product", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := in.validate(); err != nil {
		return nil, e.fail("Product rejected", err)
	}
	if other, ok := e.store.ProductByCode(in.Code); ok {
		return nil, e.fail("Product rejected",
			errConflict(ledger.KindProduct, "code %s already belongs to %s", in.Code, other.Name))
	}

	now := e.now()
	cost := in.Cost
	if cost.IsZero() {
		cost = in.Price.Mul(defaultCostRatio)
	}
	minStock := in.MinStock
	if minStock == 0 {
		minStock = e.store.Settings().LowStockThreshold
	}
	prod := &ledger.Product{
		ID:        e.newID(ledger.PrefixProduct),
		Name:      in.Name,
		Code:      in.Code,
		Price:     in.Price,
		Cost:      cost,
		Stock:     in.Stock,
		MinStock:  minStock,
		Category:  in.Category,
		Unit:      in.Unit,
		Status:    ledger.DeriveStatus(in.Stock, minStock),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.store.PutProduct(prod)

	e.events.Append(ledger.EventActivity, "Product added",
		fmt.Sprintf("%s (%s), %d units", prod.Name, prod.Code, prod.Stock),
		&ledger.EntityRef{Kind: ledger.KindProduct, ID: prod.ID})
	e.lowStockCheck(ctx, prod)
	e.persist(ctx)
	return prod, nil
}

// UpdateProduct rewrites a product; the code stays unique and the status
// is recomputed from the new stock levels. Gated.
func (e *Engine) UpdateProduct(ctx context.Context, id string, in ProductInput) (*ledger.Product, error) {
	if err := e.begin(ctx, "update product", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	prod, ok := e.store.Product(id)
	if !ok {
		return nil, e.fail("Product update rejected", errNotFound(ledger.KindProduct, id))
	}
	if err := in.validate(); err != nil {
		return nil, e.fail("Product update rejected", err)
	}
	if other, ok := e.store.ProductByCode(in.Code); ok && other.ID != id {
		return nil, e.fail("Product update rejected",
			errConflict(ledger.KindProduct, "code %s already belongs to %s", in.Code, other.Name))
	}

	now := e.now()
	prod.Name = in.Name
	prod.Code = in.Code
	prod.Price = in.Price
	if !in.Cost.IsZero() {
		prod.Cost = in.Cost
	}
	prod.Stock = in.Stock
	prod.MinStock = in.MinStock
	prod.Category = in.Category
	prod.Unit = in.Unit
	prod.Status = ledger.DeriveStatus(prod.Stock, prod.MinStock)
	prod.UpdatedAt = now

	e.events.Append(ledger.EventActivity, "Product updated",
		fmt.Sprintf("%s (%s)", prod.Name, prod.Code),
		&ledger.EntityRef{Kind: ledger.KindProduct, ID: prod.ID})
	e.lowStockCheck(ctx, prod)
	e.persist(ctx)
	return prod, nil
}

// DeleteProduct removes a product unless any live sale still references
// it. Gated.
func (e *Engine) DeleteProduct(ctx context.Context, id string) error {
	if err := e.begin(ctx, "delete product", true); err != nil {
		return err
	}
	defer e.mu.Unlock()

	prod, ok := e.store.Product(id)
	if !ok {
		return e.fail("Product delete rejected", errNotFound(ledger.KindProduct, id))
	}
	for _, sale := range e.store.Sales() {
		if sale.ProductID == id {
			return e.fail("Product delete rejected",
				errConflict(ledger.KindProduct, "sale %s still references %s", sale.InvoiceNumber, prod.Name))
		}
	}

	e.store.RemoveProduct(id)
	e.events.Append(ledger.EventActivity, "Product deleted", prod.Name,
		&ledger.EntityRef{Kind: ledger.KindProduct, ID: prod.ID})
	e.persist(ctx)
	return nil
}
