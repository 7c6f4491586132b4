package models

import (
	"container/heap"
	"sync"
	"time"
)

const (
	EventStateChanged   = "StateChanged"
	EventSaleConfirmed  = "SaleConfirmed"
	EventLowStock       = "LowStock"
	EventLossRecorded   = "LossRecorded"
	EventTableCreated   = "TableCreated"
	EventTableDeleted   = "TableDeleted"
	EventShiftOpened    = "ShiftOpened"
	EventShiftClosed    = "ShiftClosed"
	EventCatalogChanged = "CatalogChanged"
)

// Event is an outbound notification produced by a terminal command.
type Event struct {
	Time time.Time
	Seq  uint64
	Type string
	Data interface{}
}

// EventMessage is an event serialised for an output destination.
type EventMessage struct {
	Topic   string
	Message []byte
}

// EventQueue is a priority queue of events ordered by time, then by the
// order they were enqueued.
type EventQueue struct {
	events []*Event
	seq    uint64
	mutex  sync.Mutex
}

// eventHeap implements heap.Interface and holds Events
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time.Equal(h[j].Time) {
		return h[i].Seq < h[j].Seq
	}
	return h[i].Time.Before(h[j].Time)
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// NewEventQueue creates a new EventQueue
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]*Event, 0)}
}

// Enqueue adds an event to the queue and stamps its sequence number.
func (eq *EventQueue) Enqueue(event *Event) {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	eq.seq++
	event.Seq = eq.seq
	heap.Push((*eventHeap)(&eq.events), event)
}

// Len returns the number of events in the queue
func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events)
}

func (eq *EventQueue) DequeueBatch(maxBatchSize int) []*Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()

	batchSize := minInt(maxBatchSize, len(eq.events))
	batch := make([]*Event, 0, batchSize)

	for i := 0; i < batchSize; i++ {
		event := heap.Pop((*eventHeap)(&eq.events)).(*Event)
		batch = append(batch, event)
	}

	return batch
}

// Drain removes and returns every queued event in order.
func (eq *EventQueue) Drain() []*Event {
	return eq.DequeueBatch(eq.Len())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
