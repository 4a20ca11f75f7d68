package engine

import (
	"context"
	"fmt"

	"github.com/daftarhq/daftar/internal/ledger"
)

// AdjustStock applies a manual stock correction and appends it to the
// stock-adjustment audit log, which is kept separate from the sales
// history. Gated.
//
// Kinds: add -> stock+amount; remove -> max(0, stock-amount); set -> amount.
// The status is always recomputed afterwards.
func (e *Engine) AdjustStock(ctx context.Context, productID string, kind ledger.StockAdjustmentKind, amount int, reason string) (*ledger.Product, error) {
	if err := e.begin(ctx, "adjust stock", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	switch kind {
	case ledger.StockAdd, ledger.StockRemove:
		if amount <= 0 {
			return nil, e.fail("Stock adjustment rejected",
				errValidation("amount must be positive for %s, got %d", kind, amount))
		}
	case ledger.StockSet:
		if amount < 0 {
			return nil, e.fail("Stock adjustment rejected",
				errValidation("amount must not be negative for set, got %d", amount))
		}
	default:
		return nil, e.fail("Stock adjustment rejected",
			errValidation("unknown adjustment kind %q", kind))
	}
	prod, ok := e.store.Product(productID)
	if !ok {
		return nil, e.fail("Stock adjustment rejected", errNotFound(ledger.KindProduct, productID))
	}

	now := e.now()
	prev := prod.Stock
	switch kind {
	case ledger.StockAdd:
		prod.Stock += amount
	case ledger.StockRemove:
		prod.Stock -= amount
		if prod.Stock < 0 {
			prod.Stock = 0
		}
	case ledger.StockSet:
		prod.Stock = amount
	}
	prod.Status = ledger.DeriveStatus(prod.Stock, prod.MinStock)
	prod.UpdatedAt = now

	e.store.AppendStockLog(ledger.StockAdjustment{
		ID:        e.newID(ledger.PrefixAdjustment),
		ProductID: prod.ID,
		Kind:      kind,
		Amount:    amount,
		PrevStock: prev,
		NewStock:  prod.Stock,
		Reason:    reason,
		At:        now,
	})

	e.events.Append(ledger.EventActivity, "Stock adjusted",
		fmt.Sprintf("%s (%s): %s %d, stock %d -> %d", prod.Name, prod.Code, kind, amount, prev, prod.Stock),
		&ledger.EntityRef{Kind: ledger.KindProduct, ID: prod.ID})
	e.lowStockCheck(ctx, prod)
	e.persist(ctx)
	return prod, nil
}
