package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEventQueueOrdersByTimeThenSequence(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q := NewEventQueue()
	q.Enqueue(&Event{Time: base.Add(time.Second), Type: "late"})
	q.Enqueue(&Event{Time: base, Type: "first"})
	q.Enqueue(&Event{Time: base, Type: "second"})

	var got []string
	for _, ev := range q.Drain() {
		got = append(got, ev.Type)
	}
	if strings.Join(got, ",") != "first,second,late" {
		t.Errorf("order = %v", got)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Error("queue not empty after drain")
	}
}

func TestDequeueBatch(t *testing.T) {
	q := NewEventQueue()
	now := time.Now()
	for i := 0; i < 5; i++ {
		q.Enqueue(&Event{Time: now})
	}
	if n := len(q.DequeueBatch(3)); n != 3 {
		t.Errorf("batch = %d, want 3", n)
	}
	if n := len(q.DequeueBatch(10)); n != 2 {
		t.Errorf("batch = %d, want 2", n)
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{Shortfalls: map[string]Shortfall{
		"Tortilla": {Ingredient: "Tortilla", Required: 3, Available: 1, Shortfall: 2, Unit: "pc"},
		"Shrimp":   {Ingredient: "Shrimp", Required: 100, Available: 50, Shortfall: 50, Unit: "g"},
	}}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Error("does not match ErrInsufficientStock")
	}
	msg := err.Error()
	if strings.Index(msg, "Shrimp") > strings.Index(msg, "Tortilla") {
		t.Errorf("ingredients not sorted: %s", msg)
	}
	if !errors.Is(ErrDishNotFound, ErrNotFound) || !errors.Is(ErrDuplicateName, ErrDuplicateKey) {
		t.Error("sentinel wrapping broken")
	}
}
