package util

import (
	"sync"
	"testing"
	"time"
)

// TestQueueBasicOperations tests basic push and consume functionality
func TestQueueBasicOperations(t *testing.T) {
	q := NewMPSC[int]()
	defer q.Close()

	// Push 10 items
	for i := 0; i < 10; i++ {
		v := i
		if !q.Push(&v) {
			t.Fatalf("Failed to push item %d", i)
		}
	}

	// Consume 10 items in order (single producer keeps FIFO)
	for i := 0; i < 10; i++ {
		select {
		case val := <-q.Recv():
			if *val != i {
				t.Errorf("Expected %d, got %v", i, *val)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for item %d", i)
		}
	}

	// Make sure queue is empty
	select {
	case val := <-q.Recv():
		t.Errorf("Queue should be empty, but got %v", val)
	case <-time.After(10 * time.Millisecond):
		// Expected timeout, queue is empty
	}
}

// TestQueueConcurrentProducers verifies the queue with multiple producers
func TestQueueConcurrentProducers(t *testing.T) {
	q := NewMPSC[int]()

	const numProducers = 8
	const itemsPerProducer = 1000
	totalItems := numProducers * itemsPerProducer

	received := make(map[int]bool, totalItems)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for val := range q.Recv() {
			if val == nil {
				t.Error("Received nil item")
				return
			}
			if received[*val] {
				t.Errorf("Duplicate item received: %d", *val)
			}
			received[*val] = true
		}
	}()

	var wg sync.WaitGroup
	wg.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func(producerID int) {
			defer wg.Done()
			base := producerID * itemsPerProducer
			for i := 0; i < itemsPerProducer; i++ {
				v := base + i
				if !q.Push(&v) {
					t.Errorf("Push failed for item %d", v)
					return
				}
			}
		}(p)
	}

	wg.Wait()
	q.Close()
	<-done

	if len(received) != totalItems {
		t.Errorf("Expected %d items, received %d", totalItems, len(received))
	}
}

// TestQueueClose verifies close semantics: pending items are delivered,
// later pushes are rejected
func TestQueueClose(t *testing.T) {
	q := NewMPSC[string]()

	a, b := "a", "b"
	q.Push(&a)
	q.Push(&b)
	q.Close()

	if !q.IsClosed() {
		t.Error("IsClosed should report true after Close")
	}

	c := "c"
	if q.Push(&c) {
		t.Error("Push after Close should return false")
	}

	var got []string
	for val := range q.Recv() {
		got = append(got, *val)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected pending items [a b], got %v", got)
	}
}

// TestQueueNilRejected verifies that nil values are rejected
func TestQueueNilRejected(t *testing.T) {
	q := NewMPSC[int]()
	defer q.Close()

	if q.Push(nil) {
		t.Error("Push(nil) should return false")
	}
}
