// Package migrate upgrades persisted snapshots across schema versions.
//
// Migration operates on the raw decoded JSON document (map[string]any), not
// on typed structs, so keys written by versions this build does not know
// about survive untouched (forward compatibility). Backfill rules per
// version are documented on Run. Running migration on an already-current
// document is a no-op.
package migrate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/daftarhq/daftar/internal/ledger"
)

// Run backfills a raw snapshot document to the current schema version.
// It returns the same map, mutated in place, and whether anything changed.
//
// Backfilled defaults:
//   - Sale.paymentMethod  -> "cash"
//   - Sale.status         -> "Completed"
//   - Sale.createdAt      -> date + "T12:00:00.000Z" (noon UTC of the sale day)
//   - Product.cost        -> 0.7 * price
//   - Product.minStock    -> the document's settings.lowStockThreshold
//     (the package default when the document has no settings)
//   - Product.status      -> recomputed from (stock, minStock)
//   - Contract.status     -> "Active"
//   - Contract.endDate    -> startDate + duration months
//   - Customer.type       -> "individual"
//   - Customer.totalPurchases -> recomputed from live sales
//   - settings            -> defaults
//   - metadata invoice/contract counters -> seeded from the highest issued
//     document numbers, so upgraded stores never reissue a number
//
// Run never fails: malformed individual records are left as found rather
// than aborting the whole load.
func Run(raw map[string]any, now time.Time) (map[string]any, bool) {
	if raw == nil {
		raw = map[string]any{}
	}
	meta := childMap(raw, "metadata")
	if intField(meta, "schemaVersion") == ledger.SchemaVersion {
		return raw, false
	}

	sales := childList(raw, "sales")
	for _, rec := range sales {
		migrateSale(rec)
	}
	threshold := ledger.DefaultSettings().LowStockThreshold
	if s := childMap(raw, "settings"); len(s) > 0 {
		if _, ok := s["lowStockThreshold"]; ok {
			threshold = intField(s, "lowStockThreshold")
		}
	}
	for _, rec := range childList(raw, "products") {
		migrateProduct(rec, threshold)
	}
	for _, rec := range childList(raw, "contracts") {
		migrateContract(rec)
	}
	for _, rec := range childList(raw, "customers") {
		migrateCustomer(rec, sales)
	}

	if _, ok := raw["settings"]; !ok {
		def := ledger.DefaultSettings()
		raw["settings"] = map[string]any{
			"lowStockThreshold": def.LowStockThreshold,
			"contractAlertDays": def.ContractAlertDays,
			"alerts": map[string]any{
				"sales":     def.Alerts.Sales,
				"stock":     def.Alerts.Stock,
				"contracts": def.Alerts.Contracts,
			},
		}
	}

	seedCounters(meta, "invoiceSeq", sales, "invoiceNumber")
	seedCounters(meta, "contractSeq", childList(raw, "contracts"), "contractNumber")

	meta["schemaVersion"] = ledger.SchemaVersion
	meta["migratedAt"] = now.UTC().Format(time.RFC3339Nano)
	raw["metadata"] = meta
	return raw, true
}

func migrateSale(rec map[string]any) {
	if rec == nil {
		return
	}
	setIfMissing(rec, "paymentMethod", "cash")
	setIfMissing(rec, "status", ledger.SaleCompleted)
	if _, ok := rec["createdAt"]; !ok {
		if date, ok := rec["date"].(string); ok && date != "" {
			rec["createdAt"] = date + "T12:00:00.000Z"
		}
	}
	if _, ok := rec["updatedAt"]; !ok {
		if created, ok := rec["createdAt"]; ok {
			rec["updatedAt"] = created
		}
	}
}

func migrateProduct(rec map[string]any, threshold int) {
	if rec == nil {
		return
	}
	if _, ok := rec["cost"]; !ok {
		rec["cost"] = 0.7 * numField(rec, "price")
	}
	setIfMissing(rec, "minStock", float64(threshold))
	stock := int(numField(rec, "stock"))
	minStock := int(numField(rec, "minStock"))
	rec["status"] = string(ledger.DeriveStatus(stock, minStock))
}

func migrateContract(rec map[string]any) {
	if rec == nil {
		return
	}
	setIfMissing(rec, "status", ledger.ContractActive)
	if _, ok := rec["endDate"]; !ok {
		start, _ := rec["startDate"].(string)
		if derived := ledger.AddMonths(start, int(numField(rec, "duration"))); derived != "" {
			rec["endDate"] = derived
		}
	}
}

func migrateCustomer(rec map[string]any, sales []map[string]any) {
	if rec == nil {
		return
	}
	setIfMissing(rec, "type", string(ledger.CustomerIndividual))
	if _, ok := rec["totalPurchases"]; !ok {
		id, _ := rec["id"].(string)
		var total float64
		for _, sale := range sales {
			if cid, _ := sale["customerId"].(string); cid == id {
				total += numField(sale, "total")
			}
		}
		rec["totalPurchases"] = total
	}
}

// seedCounters rebuilds a per-year sequence counter map from the document
// numbers already issued, keeping whatever the stored counters say if that
// is higher. Document numbers look like "INV-2025-0042" / "CONT-2025-007".
func seedCounters(meta map[string]any, key string, recs []map[string]any, field string) {
	counters := childMap(meta, key)
	for _, rec := range recs {
		num, _ := rec[field].(string)
		parts := strings.Split(num, "-")
		if len(parts) != 3 {
			continue
		}
		year := parts[1]
		seq, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if seq > intField(counters, year) {
			counters[year] = float64(seq)
		}
	}
	if len(counters) > 0 {
		meta[key] = counters
	}
}

func childMap(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func childList(parent map[string]any, key string) []map[string]any {
	list, ok := parent[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func setIfMissing(rec map[string]any, key string, val any) {
	if _, ok := rec[key]; !ok {
		rec[key] = val
	}
}

func numField(rec map[string]any, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return 0
}

func intField(rec map[string]any, key string) int {
	return int(numField(rec, key))
}
