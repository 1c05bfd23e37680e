package session

import "sync"

// notifier is a payload-less broadcast channel scoped to the current
// process. Callbacks run synchronously on the goroutine that mutated the
// session; there is no ordering or delivery guarantee beyond "subscribed at
// the time of dispatch".
type notifier struct {
	mu          sync.Mutex
	subscribers map[int]func()
	nextID      int
}

// Subscribe registers a callback invoked after every session mutation. The
// returned function removes the subscription.
func (n *notifier) Subscribe(fn func()) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subscribers == nil {
		n.subscribers = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subscribers, id)
	}
}

func (n *notifier) broadcast() {
	n.mu.Lock()
	callbacks := make([]func(), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
