// Package notify provides the append-only notification/audit ledger and
// the best-effort outbound alert delivery port.
//
// The ledger is a pure observer of engine outcomes: it never vetoes or
// alters them, it only records them after the fact. Entries are held most
// recent first and capped; the oldest entry is evicted on overflow. Message
// content is never rewritten after append - the read flag is the only
// mutable field.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/daftarhq/daftar/internal/ledger"
)

// Cap is the maximum number of retained ledger entries.
const Cap = 50

// Ledger is the bounded, most-recent-first notification history.
//
// Thread-safety is provided for external readers (e.g. a status command
// polling unread counts) while the engine appends. In practice most usage
// is single-threaded behind the engine's single-flight lock.
type Ledger struct {
	mu     sync.Mutex
	events []ledger.NotificationEvent // index 0 is newest
	unread int
	seq    int64
	now    func() time.Time
}

// NewLedger creates an empty ledger. now defaults to time.Now.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{events: make([]ledger.NotificationEvent, 0, Cap), now: now}
}

// Replace swaps the ledger contents wholesale, newest first. Used when
// loading or importing a snapshot.
func (l *Ledger) Replace(events []ledger.NotificationEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = l.events[:0]
	l.events = append(l.events, events...)
	if len(l.events) > Cap {
		l.events = l.events[:Cap]
	}
	l.recount()
}

// Append records a new event and returns it. Evicts the oldest entry once
// the cap is exceeded.
func (l *Ledger) Append(kind ledger.EventKind, title, message string, ref *ledger.EntityRef) ledger.NotificationEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	ev := ledger.NotificationEvent{
		ID:        fmt.Sprintf("%s-%d-%d", ledger.PrefixEvent, l.now().UnixMilli(), l.seq),
		Title:     title,
		Message:   message,
		Kind:      kind,
		Timestamp: l.now(),
		Ref:       ref,
	}

	// Newest first: prepend, then trim the tail.
	l.events = append(l.events, ledger.NotificationEvent{})
	copy(l.events[1:], l.events)
	l.events[0] = ev
	if len(l.events) > Cap {
		l.events = l.events[:Cap]
	}
	l.recount()
	return ev
}

// MarkRead flags one event as read. Reports whether the id was found.
func (l *Ledger) MarkRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.events {
		if l.events[i].ID == id {
			l.events[i].Read = true
			l.recount()
			return true
		}
	}
	return false
}

// MarkAllRead flags every event as read and returns how many changed.
func (l *Ledger) MarkAllRead() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	changed := 0
	for i := range l.events {
		if !l.events[i].Read {
			l.events[i].Read = true
			changed++
		}
	}
	l.recount()
	return changed
}

// Delete removes one event. Reports whether the id was found.
func (l *Ledger) Delete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.events {
		if l.events[i].ID == id {
			l.events = append(l.events[:i], l.events[i+1:]...)
			l.recount()
			return true
		}
	}
	return false
}

// Clear removes every event.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = l.events[:0]
	l.unread = 0
}

// All returns a copy of the ledger, newest first.
func (l *Ledger) All() []ledger.NotificationEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ledger.NotificationEvent, len(l.events))
	copy(out, l.events)
	return out
}

// ByKind returns the events of one kind, newest first. Pure read.
func (l *Ledger) ByKind(kind ledger.EventKind) []ledger.NotificationEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ledger.NotificationEvent
	for _, ev := range l.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// UnreadCount returns the number of unread events.
func (l *Ledger) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// Len returns the number of retained events.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// recount recomputes the unread derived value. Callers hold l.mu.
func (l *Ledger) recount() {
	n := 0
	for i := range l.events {
		if !l.events[i].Read {
			n++
		}
	}
	l.unread = n
}
