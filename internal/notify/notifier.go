package notify

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/metrics"
)

// DefaultBuffer is the per-subscriber queue length used when none is configured.
const DefaultBuffer = 64

// Change describes one committed write to an order or its items.
// A single Change may cover an item update and the order status it caused.
type Change struct {
	Table   string               `json:"table"`
	Kind    string               `json:"kind"`
	OrderID uuid.UUID            `json:"order_id"`
	Order   *database.Order      `json:"order,omitempty"`
	Items   []database.OrderItem `json:"items,omitempty"`
	At      time.Time            `json:"at"`
}

type subscriber struct {
	queue chan Change
	fn    func(Change)
	done  chan struct{}
}

// Notifier broadcasts changes to every current subscriber.
//
// Delivery is best effort: each subscriber drains its own bounded queue on its
// own goroutine, so Publish never blocks on a slow observer. When a queue is
// full the change is dropped for that subscriber only. Changes reach a given
// subscriber in the order they were published. There is no replay; observers
// are expected to fetch current state when they subscribe.
type Notifier struct {
	mu      sync.Mutex
	subs    map[uint64]*subscriber
	nextID  uint64
	buffer  int
	closed  bool
	metrics *metrics.Collector
}

// New creates a Notifier with the given per-subscriber queue length.
func New(buffer int, m *metrics.Collector) *Notifier {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Notifier{
		subs:    make(map[uint64]*subscriber),
		buffer:  buffer,
		metrics: m,
	}
}

// Subscribe registers fn to receive every change published from now on.
// The returned function unsubscribes and waits for fn to return; it is safe
// to call more than once but must not be called from inside fn.
func (n *Notifier) Subscribe(fn func(Change)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return func() {}
	}

	id := n.nextID
	n.nextID++
	s := &subscriber{
		queue: make(chan Change, n.buffer),
		fn:    fn,
		done:  make(chan struct{}),
	}
	n.subs[id] = s
	n.metrics.SubscriberAdded()

	go s.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			if _, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(s.queue)
				n.metrics.SubscriberRemoved()
			}
			n.mu.Unlock()
			<-s.done
		})
	}
}

// Publish queues c for every subscriber without blocking.
func (n *Notifier) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	for id, s := range n.subs {
		select {
		case s.queue <- c:
		default:
			log.Printf("WARNING: notify: subscriber %d queue full, dropping %s/%s for order %s", id, c.Table, c.Kind, c.OrderID)
			n.metrics.NotificationDropped()
		}
	}
	n.metrics.NotificationPublished()
}

// Subscribers returns the number of active subscriptions.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Close stops delivery and waits for subscriber goroutines to drain.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	subs := make([]*subscriber, 0, len(n.subs))
	for id, s := range n.subs {
		close(s.queue)
		delete(n.subs, id)
		subs = append(subs, s)
	}
	n.mu.Unlock()

	for _, s := range subs {
		<-s.done
	}
}

func (s *subscriber) run() {
	defer close(s.done)
	for c := range s.queue {
		s.deliver(c)
	}
}

func (s *subscriber) deliver(c Change) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: notify: subscriber panicked: %v", r)
		}
	}()
	s.fn(c)
}
