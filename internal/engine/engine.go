// Package engine is the order and inventory consistency core of a terminal.
// It owns the catalog, the tables, the sales, shift and loss logs, and runs
// every command to completion under one lock: a command either succeeds and
// queues its events, or fails and leaves the state untouched.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/chrisdamba/tablepos/internal/catalog"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/stock"
	"github.com/chrisdamba/tablepos/internal/tables"
	"github.com/lucsky/cuid"
)

type Engine struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	tables  *tables.Registry
	ledger  *stock.Ledger
	sales   []models.SaleRecord
	shifts  []models.Shift
	losses  []models.LossEntry

	events *models.EventQueue
	now    func() time.Time
	newID  func() string
}

type Option func(*Engine)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces cuid.New for sale and shift ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New builds an engine from a persisted state. The state is copied; a nil
// state gives an empty terminal.
func New(state *models.State, opts ...Option) *Engine {
	e := &Engine{
		events: models.NewEventQueue(),
		now:    time.Now,
		newID:  cuid.New,
	}
	e.load(state)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore puts the engine back to a copy of state and drops the queued
// events. Clock and id generator are kept.
func (e *Engine) Restore(state *models.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(state)
	e.events.Drain()
}

func (e *Engine) load(state *models.State) {
	if state == nil {
		state = &models.State{}
	}
	s := state.Clone()
	s.Normalize()

	e.catalog = catalog.New(s.Inventory, s.Recipes)
	e.tables = tables.New(s.Tables, s.NextTableID, s.ActiveTableID)
	e.ledger = stock.NewLedger(e.catalog)
	e.sales = s.Sales
	e.shifts = s.Shifts
	e.losses = s.Losses
}

// Snapshot returns a deep copy of the full terminal state in its persisted
// shape.
func (e *Engine) Snapshot() *models.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() *models.State {
	s := &models.State{
		Inventory:     e.catalog.Inventory(),
		Recipes:       e.catalog.Recipes(),
		Tables:        e.tables.Tables(),
		Losses:        make([]models.LossEntry, len(e.losses)),
		Sales:         make([]models.SaleRecord, len(e.sales)),
		Shifts:        make([]models.Shift, len(e.shifts)),
		NextTableID:   e.tables.NextID(),
		ActiveTableID: e.tables.ActiveID(),
	}
	copy(s.Losses, e.losses)
	for i, sale := range e.sales {
		s.Sales[i] = sale.Clone()
	}
	for i, sh := range e.shifts {
		s.Shifts[i] = sh.Clone()
	}
	return s
}

// DrainEvents removes and returns the queued events, oldest first.
func (e *Engine) DrainEvents() []*models.Event {
	return e.events.Drain()
}

// PendingEvents is the number of queued events.
func (e *Engine) PendingEvents() int {
	return e.events.Len()
}

func (e *Engine) emit(eventType string, data interface{}) {
	e.events.Enqueue(&models.Event{Time: e.now(), Type: eventType, Data: data})
}

// changed queues the StateChanged event every successful mutating command
// ends with. Data is the command name.
func (e *Engine) changed(command string) {
	e.emit(models.EventStateChanged, command)
}

func warnUnresolved(command string, unresolved []stock.Unresolved) {
	for _, u := range unresolved {
		if u.Ingredient == "" {
			log.Printf("%s: no recipe for %q, its consumption is not tracked", command, u.Dish)
			continue
		}
		log.Printf("%s: ingredient %q of %q is not in inventory, its consumption is not tracked", command, u.Ingredient, u.Dish)
	}
}
