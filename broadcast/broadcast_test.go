package broadcast

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMailbox_DeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []int
	m := NewMailbox(func(v int) error {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		return nil
	})

	for i := 0; i < 100; i++ {
		if err := m.Post(i); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}
	m.Close()

	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("mailbox did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 100 {
		t.Fatalf("Expected 100 deliveries, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Delivery %d out of order: got %d", i, v)
		}
	}
}

func TestMailbox_PostDoesNotWaitForSlowConsumer(t *testing.T) {
	release := make(chan struct{})
	m := NewMailbox(func(v int) error {
		<-release
		return nil
	})

	start := time.Now()
	for i := 0; i < 50; i++ {
		m.Post(i)
	}
	if time.Since(start) > time.Second {
		t.Error("Post blocked on a slow consumer")
	}
	close(release)
	m.Close()
	<-m.Done()
}

func TestMailbox_ClosedRejectsPosts(t *testing.T) {
	m := NewMailbox(func(v string) error { return nil })
	m.Close()
	<-m.Done()
	if err := m.Post("late"); !errors.Is(err, ErrMailboxClosed) {
		t.Errorf("Expected ErrMailboxClosed, got %v", err)
	}
}

func TestMailbox_DeliverErrorStops(t *testing.T) {
	m := NewMailbox(func(v int) error { return errors.New("broken pipe") })
	m.Post(1)
	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("consumer should stop after a delivery error")
	}
	if err := m.Post(2); !errors.Is(err, ErrMailboxClosed) {
		t.Errorf("Expected ErrMailboxClosed after failure, got %v", err)
	}
}
