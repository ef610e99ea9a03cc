// Package notifier broadcasts snapshot changes to SSE listeners.
package notifier

import "sync"

// Notifier broadcasts events to all subscribed listeners.
// Listeners receive the id of the newest snapshot and should re-query the API.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan string]struct{}),
	}
}

// Subscribe returns a channel that receives snapshot ids.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Len returns the number of listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends id to all listeners.
// Non-blocking: a listener that has not consumed its previous event gets the newer id instead.
func (n *Notifier) Broadcast(id string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- id:
		default:
			// drop the stale id, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- id:
			default:
			}
		}
	}
}
