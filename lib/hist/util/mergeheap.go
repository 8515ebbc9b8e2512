// Package util
//
// This file provides a keyed min-heap ordered by a signed time priority.
//
// The implementation combines a binary heap with a hash map, so it supports
// both priority-based operations and direct key-based access. It is used to
// k-way-merge the per-handle ascending version chains of a history into one
// globally time-ordered stream: the heap holds one entry per handle, keyed
// by the handle and prioritized by the time of that handle's next pending
// record. Popping the minimum yields the globally next record; re-adding the
// same key with the handle's following record time restores the heap
// property in O(log n).
//
// Complexity:
//   - O(log n) for AddItem, PopMin, and RemoveByKey
//   - O(1) for Peek, Contains, and key lookups
//
// This implementation is not thread-safe; callers must synchronize
// externally if needed.
package util

import (
	"container/heap"
	"strconv"
)

// Item is an element of the merge heap: a uint64 key (typically a handle)
// with a signed time priority.
type Item struct {
	Key      uint64 // Unique identifier for the item
	Priority int64  // Time ordinal used for ordering in the heap
	index    int    // Index in the heap, maintained by the heap package
}

func (i *Item) String() string {
	return "{Key: " + strconv.FormatUint(i.Key, 10) + ", Priority: " + strconv.FormatInt(i.Priority, 10) + "}"
}

// MergeHeap is a keyed min-heap over (key, time) pairs with both heap
// operations and O(1) key-based access.
type MergeHeap struct {
	items    []*Item          // The actual heap slice
	itemsMap map[uint64]*Item // Map for O(1) access by key
}

// NewMergeHeap creates a new empty merge heap
func NewMergeHeap() *MergeHeap {
	return &MergeHeap{
		items:    make([]*Item, 0),
		itemsMap: make(map[uint64]*Item),
	}
}

// Len returns the number of items in the heap (part of heap.Interface)
func (mh *MergeHeap) Len() int { return len(mh.items) }

// Less compares items by time priority (part of heap.Interface)
// The heap is a min-heap: the earliest time surfaces first.
func (mh *MergeHeap) Less(i, j int) bool {
	return mh.items[i].Priority < mh.items[j].Priority
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (mh *MergeHeap) Swap(i, j int) {
	mh.items[i], mh.items[j] = mh.items[j], mh.items[i]
	mh.items[i].index = i
	mh.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface)
func (mh *MergeHeap) Push(x interface{}) {
	n := len(mh.items)
	item := x.(*Item)
	item.index = n
	mh.items = append(mh.items, item)
	mh.itemsMap[item.Key] = item
}

// Pop removes and returns the minimum item (part of heap.Interface)
func (mh *MergeHeap) Pop() interface{} {
	old := mh.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.index = -1 // For safety
	mh.items = old[:n-1]
	delete(mh.itemsMap, item.Key)
	return item
}

// AddItem adds a new item to the heap or reprioritizes an existing one
func (mh *MergeHeap) AddItem(key uint64, priority int64) {
	// Check if item already exists
	if item, exists := mh.itemsMap[key]; exists {
		// Update priority and fix heap
		item.Priority = priority
		heap.Fix(mh, item.index)
		return
	}

	// Create and add new item
	item := &Item{
		Key:      key,
		Priority: priority,
	}
	heap.Push(mh, item)
}

// PopMin removes and returns the key and priority of the earliest item.
// The boolean return value is false if the heap is empty.
func (mh *MergeHeap) PopMin() (uint64, int64, bool) {
	if len(mh.items) == 0 {
		return 0, 0, false
	}
	item := heap.Pop(mh).(*Item)
	return item.Key, item.Priority, true
}

// RemoveByKey removes an item by its key
func (mh *MergeHeap) RemoveByKey(key uint64) (int64, bool) {
	item, exists := mh.itemsMap[key]
	if !exists {
		return 0, false
	}

	// Remove from heap
	heap.Remove(mh, item.index)
	return item.Priority, true
}

// Peek returns the earliest item without removing it
func (mh *MergeHeap) Peek() (*Item, bool) {
	if len(mh.items) == 0 {
		return nil, false
	}
	return mh.items[0], true
}

// Contains checks if a key exists in the heap
func (mh *MergeHeap) Contains(key uint64) bool {
	_, exists := mh.itemsMap[key]
	return exists
}

// GetByKey retrieves an item by its key without removing it
func (mh *MergeHeap) GetByKey(key uint64) (*Item, bool) {
	item, exists := mh.itemsMap[key]
	return item, exists
}
