package engine

import "context"

// Notification state changes are thin wrappers over the ledger: they are
// not gated, but they persist so read/unread state survives restarts, and
// they take the single-flight lock so they cannot interleave with a
// pending mutation.

// MarkNotificationRead flags one notification as read.
func (e *Engine) MarkNotificationRead(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ok := e.events.MarkRead(id)
	if ok {
		e.persist(ctx)
	}
	return ok
}

// MarkAllNotificationsRead flags every notification as read.
func (e *Engine) MarkAllNotificationsRead(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.events.MarkAllRead()
	if n > 0 {
		e.persist(ctx)
	}
	return n
}

// DeleteNotification removes one notification from the ledger.
func (e *Engine) DeleteNotification(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ok := e.events.Delete(id)
	if ok {
		e.persist(ctx)
	}
	return ok
}

// ClearNotifications removes every notification.
func (e *Engine) ClearNotifications(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events.Clear()
	e.persist(ctx)
}
