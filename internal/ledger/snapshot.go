package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Snapshot is the full persisted state: every collection plus settings and
// metadata, serialized as one JSON document.
type Snapshot struct {
	Sales         []Sale              `json:"sales"`
	Products      []Product           `json:"products"`
	Customers     []Customer          `json:"customers"`
	Contracts     []Contract          `json:"contracts"`
	Notifications []NotificationEvent `json:"notifications"`
	StockLog      []StockAdjustment   `json:"stockLog"`
	Settings      Settings            `json:"settings"`
	Metadata      Metadata            `json:"metadata"`
}

// NewSnapshot returns an empty snapshot at the current schema version with
// default settings.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Sales:         []Sale{},
		Products:      []Product{},
		Customers:     []Customer{},
		Contracts:     []Contract{},
		Notifications: []NotificationEvent{},
		StockLog:      []StockAdjustment{},
		Settings:      DefaultSettings(),
		Metadata:      Metadata{SchemaVersion: SchemaVersion},
	}
}

// Normalize sorts every collection by id so two snapshots with the same
// contents encode to identical bytes. Notifications keep their
// most-recent-first order; the stock log keeps append order.
func (s *Snapshot) Normalize() {
	sort.Slice(s.Sales, func(i, j int) bool { return s.Sales[i].ID < s.Sales[j].ID })
	sort.Slice(s.Products, func(i, j int) bool { return s.Products[i].ID < s.Products[j].ID })
	sort.Slice(s.Customers, func(i, j int) bool { return s.Customers[i].ID < s.Customers[j].ID })
	sort.Slice(s.Contracts, func(i, j int) bool { return s.Contracts[i].ID < s.Contracts[j].ID })
}

// EncodeSnapshot serializes a snapshot to deterministic, indented JSON.
// HTML escaping is disabled so notes and messages round-trip byte-exact.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	s.Normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses a snapshot document. Nil collection fields are
// replaced with empty slices so callers never see nil.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Customers == nil {
		s.Customers = []Customer{}
	}
	if s.Contracts == nil {
		s.Contracts = []Contract{}
	}
	if s.Notifications == nil {
		s.Notifications = []NotificationEvent{}
	}
	if s.StockLog == nil {
		s.StockLog = []StockAdjustment{}
	}
	return &s, nil
}
