package watchlist

import (
	"sync"

	"github.com/s0up4200/marquee/catalog"
)

// Observer receives the complete watchlist movie view after every change
type Observer func(movies []catalog.CatalogItem)

// ObserverID identifies a registration for Unregister
type ObserverID uint64

type registration struct {
	id       ObserverID
	observer Observer
}

// Notifier fans watchlist changes out to registered observers
type Notifier struct {
	mu        sync.Mutex
	nextID    ObserverID
	observers []registration
}

// NewNotifier creates a notifier with no observers
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Register adds an observer. Observers are called in registration order.
func (n *Notifier) Register(observer Observer) ObserverID {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.observers = append(n.observers, registration{id: n.nextID, observer: observer})
	return n.nextID
}

// Unregister removes an observer and reports whether it was registered
func (n *Notifier) Unregister(id ObserverID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, r := range n.observers {
		if r.id == id {
			n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered observers
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers)
}

// Publish delivers movies to a snapshot of the current observers.
// Observers run on the calling goroutine with no lock held, so they may
// register or unregister; such changes apply from the next Publish.
func (n *Notifier) Publish(movies []catalog.CatalogItem) {
	n.mu.Lock()
	snapshot := make([]registration, len(n.observers))
	copy(snapshot, n.observers)
	n.mu.Unlock()

	for _, r := range snapshot {
		r.observer(movies)
	}
}
