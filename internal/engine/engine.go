package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/daftarhq/daftar/internal/gate"
	"github.com/daftarhq/daftar/internal/ledger"
	"github.com/daftarhq/daftar/internal/notify"
	"github.com/daftarhq/daftar/internal/store"
)

// Saver persists the encoded snapshot after every committed mutation.
// Implementations are external collaborators; a failing Saver degrades the
// engine (warning raised) but never fails an operation.
type Saver interface {
	Save(ctx context.Context, blob []byte) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, blob []byte) error

func (f SaverFunc) Save(ctx context.Context, blob []byte) error { return f(ctx, blob) }

// Persistence retry policy, mirroring outbound alert delivery.
const (
	saveAttempts = 3
	saveBackoff  = 100 * time.Millisecond
)

// Config wires an Engine. Store is required; everything else has a default.
type Config struct {
	Store  *store.Store
	Events *notify.Ledger
	Gate   gate.Authorizer
	Saver  Saver         // nil: persistence disabled
	Alerts notify.Sender // nil: outbound alerts disabled
	Now    func() time.Time
	NewID  func(prefix string) string
}

// Engine owns no entity state of its own; it operates on the store it was
// configured with and records outcomes on the notification ledger.
type Engine struct {
	mu     sync.Mutex // single-flight: held across authorization + mutation
	store  *store.Store
	events *notify.Ledger
	gate   gate.Authorizer
	saver  Saver
	alerts notify.Sender
	now    func() time.Time
	newID  func(prefix string) string
}

// New creates an engine over the given store.
func New(cfg Config) *Engine {
	e := &Engine{
		store:  cfg.Store,
		events: cfg.Events,
		gate:   cfg.Gate,
		saver:  cfg.Saver,
		alerts: cfg.Alerts,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}
	if e.store == nil {
		e.store = store.New()
	}
	if e.events == nil {
		e.events = notify.NewLedger(cfg.Now)
	}
	if e.gate == nil {
		e.gate = gate.Open{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = ledger.NewID
	}
	return e
}

// Store exposes the underlying entity store for read-only callers.
// Mutations must go through engine operations.
func (e *Engine) Store() *store.Store { return e.store }

// Events exposes the notification ledger.
func (e *Engine) Events() *notify.Ledger { return e.events }

// begin acquires the single-flight lock and, for gated actions, runs
// authorization while holding it. On rejection the lock is released, an
// error notification is appended, and no engine side effect has run.
//
// On nil return the caller owns the lock and must release it.
func (e *Engine) begin(ctx context.Context, action string, gated bool) error {
	e.mu.Lock()
	if !gated {
		return nil
	}
	ok, err := e.gate.Authorize(ctx, action)
	if err != nil {
		slog.Warn("authorization prompt failed", "action", action, "err", err)
		ok = false
	}
	if !ok {
		e.mu.Unlock()
		aerr := errAuth(action)
		e.events.Append(ledger.EventError, "Authorization denied", aerr.Error(), nil)
		return aerr
	}
	return nil
}

// fail appends an error notification for a rejected operation and returns
// the error unchanged. The store has not been touched.
func (e *Engine) fail(title string, err error) error {
	e.events.Append(ledger.EventError, title, err.Error(), nil)
	return err
}

// persist encodes the full snapshot and hands it to the saver with bounded
// retry. Failures are degraded mode: logged and surfaced as a warning, the
// in-memory commit stands and the save stamp is rolled back so metadata
// never claims a save that did not happen. Callers hold e.mu.
func (e *Engine) persist(ctx context.Context) {
	if e.saver == nil {
		return
	}
	meta := e.store.Metadata()
	prev := meta.LastSaved
	t := e.now()
	meta.LastSaved = &t
	e.store.SetMetadata(meta)

	blob, err := ledger.EncodeSnapshot(e.store.Snapshot(e.events.All()))
	if err == nil {
		if err = e.trySave(ctx, blob); err == nil {
			return
		}
	}

	meta = e.store.Metadata()
	meta.LastSaved = prev
	e.store.SetMetadata(meta)
	slog.Warn("snapshot save failed", "err", err)
	e.events.Append(ledger.EventWarning, "Save failed",
		fmt.Sprintf("changes are committed in memory but could not be persisted: %v", err), nil)
}

// trySave hands the blob to the saver with bounded retry and exponential
// backoff. A cancelled context ends the retries immediately.
func (e *Engine) trySave(ctx context.Context, blob []byte) error {
	var err error
	backoff := saveBackoff
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if err = e.saver.Save(ctx, blob); err == nil {
			return nil
		}
		if attempt == saveAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// Alert categories mapped to settings toggles.
type alertCategory int

const (
	alertSales alertCategory = iota
	alertStock
	alertContracts
)

// alert delivers an outbound alert if the category toggle is on. Toggles
// suppress delivery only; ledger appends always happen at call sites.
func (e *Engine) alert(ctx context.Context, cat alertCategory, text string) {
	if e.alerts == nil {
		return
	}
	toggles := e.store.Settings().Alerts
	enabled := false
	switch cat {
	case alertSales:
		enabled = toggles.Sales
	case alertStock:
		enabled = toggles.Stock
	case alertContracts:
		enabled = toggles.Contracts
	}
	if !enabled {
		return
	}
	if err := notify.Deliver(ctx, e.alerts, text); err != nil {
		slog.Warn("alert delivery failed", "err", err)
		e.events.Append(ledger.EventWarning, "Alert delivery failed", err.Error(), nil)
	}
}

// lowStockCheck appends a warning (and outbound alert) when a product sits
// at or below its threshold after a mutation.
func (e *Engine) lowStockCheck(ctx context.Context, p *ledger.Product) {
	if p.Stock > p.MinStock {
		return
	}
	msg := fmt.Sprintf("%s (%s) is down to %d units (threshold %d)", p.Name, p.Code, p.Stock, p.MinStock)
	e.events.Append(ledger.EventWarning, "Low stock", msg, &ledger.EntityRef{Kind: ledger.KindProduct, ID: p.ID})
	e.alert(ctx, alertStock, msg)
}
