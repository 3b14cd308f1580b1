package session

import (
	"sync"

	"github.com/mdr/duck-rewards-website/internal/domain"
)

// Notifier is the channel through which auth-state changes from outside the
// current client are delivered: a sign-out elsewhere, a token refresh, a
// role change pushed by an admin. A nil identity means "no session".
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(*domain.Identity)
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]func(*domain.Identity))}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Callers must unsubscribe on teardown so a torn-down listener is never
// invoked again.
func (n *Notifier) Subscribe(fn func(*domain.Identity)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Publish delivers a new identity (or nil for signed-out) to all listeners
// in subscription order. Delivery is synchronous so that notifications are
// applied in arrival order.
func (n *Notifier) Publish(identity *domain.Identity) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(*domain.Identity), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.listeners[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}
