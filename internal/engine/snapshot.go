package engine

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/daftarhq/daftar/internal/ledger"
	"github.com/daftarhq/daftar/internal/migrate"
	"github.com/daftarhq/daftar/internal/store"
)

//go:embed schema.cue
var snapshotSchema string

// Export serializes the full entity store plus metadata as one JSON
// document. Gated.
func (e *Engine) Export(ctx context.Context) ([]byte, error) {
	if err := e.begin(ctx, "export data", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	blob, err := ledger.EncodeSnapshot(e.store.Snapshot(e.events.All()))
	if err != nil {
		return nil, e.fail("Export failed", err)
	}
	e.events.Append(ledger.EventInfo, "Data exported",
		fmt.Sprintf("%d bytes", len(blob)), nil)
	return blob, nil
}

// Import validates, migrates and installs a snapshot document, replacing
// the entire store. On any decode or validation failure the prior state is
// left untouched: the incoming document is staged fully before anything is
// swapped in. Gated.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	if err := e.begin(ctx, "import data", true); err != nil {
		return err
	}
	defer e.mu.Unlock()

	snap, err := StageSnapshot(data, e.now())
	if err != nil {
		return e.fail("Import rejected", errValidation("%v", err))
	}

	t := e.now()
	snap.Metadata.LastLoaded = &t
	e.store.Replace(store.FromSnapshot(snap))
	e.events.Replace(snap.Notifications)
	e.events.Append(ledger.EventInfo, "Data imported",
		fmt.Sprintf("%d sales, %d products, %d customers, %d contracts",
			len(snap.Sales), len(snap.Products), len(snap.Customers), len(snap.Contracts)), nil)
	e.persist(ctx)
	return nil
}

// StageSnapshot turns a raw snapshot document into a typed, current-version
// snapshot without touching any live state: structural validation against
// the embedded CUE schema, then migration backfill on the raw document,
// then typed decode. Also used by the startup loader.
func StageSnapshot(data []byte, now time.Time) (*ledger.Snapshot, error) {
	if err := validateSnapshotJSON(data); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	raw, migrated := migrate.Run(raw, now)
	if migrated {
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("re-encode migrated snapshot: %w", err)
		}
	}
	return ledger.DecodeSnapshot(data)
}

// validateSnapshotJSON checks a snapshot document against the embedded CUE
// schema. The schema constrains shape only; field-level defaults are the
// migration manager's job.
func validateSnapshotJSON(data []byte) error {
	cctx := cuecontext.New()
	schema := cctx.CompileString(snapshotSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile snapshot schema: %w", err)
	}
	expr, err := cuejson.Extract("snapshot.json", data)
	if err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	doc := cctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build snapshot value: %w", err)
	}
	if err := schema.Unify(doc).Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("snapshot failed structural validation: %w", err)
	}
	return nil
}

// BulkDeleteSales removes every sale, restoring stock and customer totals
// sale by sale so the cross-entity invariants hold afterwards. Sequence
// counters are untouched: invoice numbers are never reissued. Gated.
func (e *Engine) BulkDeleteSales(ctx context.Context) (int, error) {
	if err := e.begin(ctx, "delete all sales", true); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()

	sales := e.store.Sales()
	for _, sale := range sales {
		e.deleteSaleLocked(sale)
	}
	e.events.Append(ledger.EventActivity, "Sales cleared",
		fmt.Sprintf("%d sales removed, stock and customer totals restored", len(sales)), nil)
	e.persist(ctx)
	return len(sales), nil
}

// BulkDeleteContracts removes every contract. Gated.
func (e *Engine) BulkDeleteContracts(ctx context.Context) (int, error) {
	if err := e.begin(ctx, "delete all contracts", true); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()

	contracts := e.store.Contracts()
	for _, contract := range contracts {
		e.store.RemoveContract(contract.ID)
	}
	e.events.Append(ledger.EventActivity, "Contracts cleared",
		fmt.Sprintf("%d contracts removed", len(contracts)), nil)
	e.persist(ctx)
	return len(contracts), nil
}

// UpdateSettings replaces the settings, including the shared secret and
// alert configuration. Gated (against the old secret, when one is set).
func (e *Engine) UpdateSettings(ctx context.Context, s ledger.Settings) error {
	if err := e.begin(ctx, "change settings", true); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if s.LowStockThreshold < 0 {
		return e.fail("Settings rejected", errValidation("lowStockThreshold must not be negative"))
	}
	if s.ContractAlertDays < 0 {
		return e.fail("Settings rejected", errValidation("contractAlertDays must not be negative"))
	}
	e.store.SetSettings(s)
	e.events.Append(ledger.EventInfo, "Settings changed", "settings updated", nil)
	e.persist(ctx)
	return nil
}
