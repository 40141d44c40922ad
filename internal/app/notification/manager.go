// Package notification fans state notifications out to streaming clients.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	noiseboxv1 "github.com/osa030/noisebox/internal/api/noiseboxv1"
)

// DefaultQueueSize is the number of notifications buffered per subscriber.
const DefaultQueueSize = 32

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(*noiseboxv1.StateNotification) error
}

// subscriber owns one stream. Only its sender goroutine calls Send, so a
// stream never sees concurrent sends.
type subscriber struct {
	id     string
	stream Stream
	queue  chan *noiseboxv1.StateNotification
	quit   chan struct{} // Closed when the subscription is removed
	exited chan struct{} // Closed when the sender goroutine has returned
}

// Subscription is a handle to one registered stream.
type Subscription struct {
	manager *Manager
	sub     *subscriber
}

// ID returns the subscription ID.
func (s *Subscription) ID() string {
	return s.sub.id
}

// Done is closed when the subscription ends (send failure, overflow,
// Unsubscribe or Close). A Send may still be in flight.
func (s *Subscription) Done() <-chan struct{} {
	return s.sub.quit
}

// Close ends the subscription and waits until the stream is no longer in use.
// The owner of the stream must call it before the stream becomes invalid.
func (s *Subscription) Close() {
	s.manager.Unsubscribe(s.sub.id)
	<-s.sub.exited
}

// Manager tracks subscribers and assigns sequence numbers.
type Manager struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	sequenceNo  uint64
	queueSize   int
	closed      bool
}

// NewManager creates a new notification manager.
func NewManager(queueSize int) *Manager {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Manager{
		subscribers: make(map[string]*subscriber),
		queueSize:   queueSize,
	}
}

// Subscribe registers stream and starts delivering notifications to it.
//
// If initial is non-nil it is called while no broadcast can run, and its
// result is delivered first. A subscriber therefore never misses a change made
// after the state initial reports.
func (m *Manager) Subscribe(stream Stream, initial func() *noiseboxv1.StateNotification) *Subscription {
	sub := &subscriber{
		id:     uuid.New().String(),
		stream: stream,
		queue:  make(chan *noiseboxv1.StateNotification, m.queueSize),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	handle := &Subscription{manager: m, sub: sub}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		close(sub.quit)
		close(sub.exited)
		return handle
	}
	if initial != nil {
		n := initial()
		m.sequenceNo++
		n.SequenceNo = m.sequenceNo
		sub.queue <- n
	}
	m.subscribers[sub.id] = sub

	go m.run(sub)
	zlog.Debug().Msgf("notification: subscribed: id=%s", sub.id)
	return handle
}

// Unsubscribe ends a subscription without waiting for an in-flight Send.
// Use Subscription.Close to wait.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

// Broadcast stamps n with the next sequence number and queues it for every
// subscriber. It never blocks: a subscriber whose queue is full is dropped.
func (m *Manager) Broadcast(n *noiseboxv1.StateNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.sequenceNo++
	n.SequenceNo = m.sequenceNo

	for id, sub := range m.subscribers {
		select {
		case sub.queue <- n:
		default:
			zlog.Warn().Msgf("notification: subscriber too slow, dropping: id=%s seq=%d", id, n.SequenceNo)
			m.removeLocked(id)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// Close ends every subscription. Later subscriptions end immediately.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for id := range m.subscribers {
		m.removeLocked(id)
	}
}

// run delivers queued notifications to one stream until the subscription ends.
func (m *Manager) run(sub *subscriber) {
	defer close(sub.exited)
	for {
		select {
		case <-sub.quit:
			return
		case n := <-sub.queue:
			if err := sub.stream.Send(n); err != nil {
				zlog.Debug().Msgf("notification: dropping subscriber: id=%s error=%v", sub.id, err)
				m.Unsubscribe(sub.id)
				return
			}
		}
	}
}

// removeLocked deletes a subscriber and signals its sender.
// Must be called with m.mu held.
func (m *Manager) removeLocked(id string) {
	sub, ok := m.subscribers[id]
	if !ok {
		return
	}
	delete(m.subscribers, id)
	close(sub.quit)
}
