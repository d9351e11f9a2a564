// Package notifier fans out dashboard notices to connected SSE clients.
package notifier

import (
	"sync"
	"time"
)

// Notice is a message shown in the dashboard banner.
type Notice struct {
	Message string
	At      time.Time
}

// Notifier broadcasts notices to all subscribed listeners and remembers the
// latest one, so pages rendered after a broadcast still show it.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Notice]struct{}
	latest    *Notice
	now       func() time.Time
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Notice]struct{}),
		now:       time.Now,
	}
}

// Subscribe returns a channel that receives each broadcast notice.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Notice {
	ch := make(chan Notice, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Notice) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast records msg as the latest notice and sends it to all listeners.
// A listener whose channel is full misses the notice but still sees it via
// Latest on its next render.
func (n *Notifier) Broadcast(msg string) {
	notice := Notice{Message: msg, At: n.now()}

	n.mu.Lock()
	n.latest = &notice
	n.mu.Unlock()

	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- notice:
		default:
		}
	}
}

// Latest returns the most recent notice, if any.
func (n *Notifier) Latest() (Notice, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.latest == nil {
		return Notice{}, false
	}
	return *n.latest, true
}
