// broadcast/broadcast.go
package broadcast

import (
	"errors"
	"sync"
)

var ErrMailboxClosed = errors.New("mailbox closed")

// Mailbox 无界有序队列，Post 从不阻塞，由独立的 goroutine 按顺序投递
type Mailbox[T any] struct {
	deliver func(T) error
	queue   []T
	mutex   sync.Mutex
	signal  chan struct{}
	closed  bool
	done    chan struct{}
}

// NewMailbox starts a consumer that calls deliver for every posted item
// in order. A deliver error stops the consumer; later posts are dropped.
func NewMailbox[T any](deliver func(T) error) *Mailbox[T] {
	m := &Mailbox[T]{
		deliver: deliver,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// Post enqueues item without waiting for delivery.
func (m *Mailbox[T]) Post(item T) error {
	m.mutex.Lock()
	if m.closed {
		m.mutex.Unlock()
		return ErrMailboxClosed
	}
	m.queue = append(m.queue, item)
	m.mutex.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
	return nil
}

// Len is the number of items not yet delivered.
func (m *Mailbox[T]) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.queue)
}

// Close stops accepting items. Queued items are still delivered.
func (m *Mailbox[T]) Close() {
	m.mutex.Lock()
	if m.closed {
		m.mutex.Unlock()
		return
	}
	m.closed = true
	m.mutex.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Done is closed once the consumer has exited.
func (m *Mailbox[T]) Done() <-chan struct{} {
	return m.done
}

func (m *Mailbox[T]) run() {
	defer close(m.done)
	for range m.signal {
		for {
			m.mutex.Lock()
			if len(m.queue) == 0 {
				closed := m.closed
				m.mutex.Unlock()
				if closed {
					return
				}
				break
			}
			item := m.queue[0]
			m.queue = m.queue[1:]
			m.mutex.Unlock()

			if err := m.deliver(item); err != nil {
				m.mutex.Lock()
				m.closed = true
				m.queue = nil
				m.mutex.Unlock()
				return
			}
		}
	}
}
