package util

import (
	"math/rand"
	"sort"
	"testing"
)

// TestNewMergeHeap tests the creation of a new MergeHeap
func TestNewMergeHeap(t *testing.T) {
	mh := NewMergeHeap()

	if mh == nil {
		t.Fatal("NewMergeHeap() returned nil")
	}

	if mh.Len() != 0 {
		t.Errorf("New heap should be empty, but has length %d", mh.Len())
	}
}

// TestAddItem tests adding items to the heap
func TestAddItem(t *testing.T) {
	mh := NewMergeHeap()

	mh.AddItem(1, 100)
	mh.AddItem(2, 200)
	mh.AddItem(3, -50)

	if mh.Len() != 3 {
		t.Errorf("Heap should have 3 items, but has %d", mh.Len())
	}

	for key := uint64(1); key <= 3; key++ {
		if !mh.Contains(key) {
			t.Errorf("Heap should contain key %d", key)
		}
	}

	// min heap over signed times: the earliest (here negative) time is first
	item, exists := mh.Peek()
	if !exists {
		t.Fatal("Peek() should return an item")
	}
	if item.Key != 3 || item.Priority != -50 {
		t.Errorf("Expected min item to be (3,-50), got (%d,%d)", item.Key, item.Priority)
	}
}

// TestReprioritize tests updating the time of an existing key
func TestReprioritize(t *testing.T) {
	mh := NewMergeHeap()

	mh.AddItem(1, 100)
	mh.AddItem(2, 200)

	// advancing key 1 past key 2 must surface key 2
	mh.AddItem(1, 300)

	item, exists := mh.GetByKey(1)
	if !exists {
		t.Fatal("Item with key 1 should exist")
	}
	if item.Priority != 300 {
		t.Errorf("Item with key 1 should have priority 300, got %d", item.Priority)
	}

	min, _ := mh.Peek()
	if min.Key != 2 {
		t.Errorf("Min item should now be key 2, got %d", min.Key)
	}
}

// TestRemoveByKey tests removing items by key
func TestRemoveByKey(t *testing.T) {
	mh := NewMergeHeap()

	mh.AddItem(1, 100)
	mh.AddItem(2, 200)
	mh.AddItem(3, 300)

	priority, exists := mh.RemoveByKey(2)
	if !exists {
		t.Fatal("RemoveByKey should return true for existing key")
	}
	if priority != 200 {
		t.Errorf("RemoveByKey should return priority 200, got %d", priority)
	}
	if mh.Contains(2) {
		t.Error("Heap should no longer contain key 2")
	}
	if mh.Len() != 2 {
		t.Errorf("Heap should have 2 items, but has %d", mh.Len())
	}

	if _, exists := mh.RemoveByKey(42); exists {
		t.Error("RemoveByKey should return false for unknown key")
	}
}

// TestPopMinOrder verifies that PopMin drains the heap in ascending time order
func TestPopMinOrder(t *testing.T) {
	mh := NewMergeHeap()
	rng := rand.New(rand.NewSource(7))

	times := make([]int64, 100)
	for i := range times {
		times[i] = int64(rng.Intn(10000) - 5000)
		mh.AddItem(uint64(i+1), times[i])
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	for i := 0; i < len(times); i++ {
		_, priority, ok := mh.PopMin()
		if !ok {
			t.Fatalf("PopMin failed at element %d", i)
		}
		if priority != times[i] {
			t.Fatalf("PopMin order broken at element %d: got %d, want %d", i, priority, times[i])
		}
	}

	if _, _, ok := mh.PopMin(); ok {
		t.Error("PopMin on empty heap should return false")
	}
}
