// Package tables keeps the open tables of a terminal, which one is active,
// and the cart of each table.
package tables

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chrisdamba/tablepos/internal/models"
)

type Registry struct {
	tables map[string]*models.Table
	nextID int
	active string
}

// New builds a registry over copies of the given tables.
func New(tables map[string]*models.Table, nextID int, active string) *Registry {
	r := &Registry{
		tables: make(map[string]*models.Table, len(tables)),
		nextID: nextID,
	}
	for id, t := range tables {
		r.tables[id] = t.Clone()
	}
	if r.nextID < 1 {
		r.nextID = 1
	}
	if _, ok := r.tables[active]; ok {
		r.active = active
	}
	return r
}

// Create adds a table. Without a requested id the next sequential numeric
// id is used; "active" is reserved. An empty display name defaults to
// "Table <id>".
func (r *Registry) Create(requestedID, displayName string) (*models.Table, error) {
	id := strings.TrimSpace(requestedID)
	if id == "" {
		id = r.allocateID()
	} else if models.SameKey(id, models.ActiveTableAlias) {
		return nil, fmt.Errorf("table id %q is reserved: %w", id, models.ErrInvalidInput)
	} else if _, exists := r.tables[id]; exists {
		return nil, fmt.Errorf("table id %q: %w", id, models.ErrDuplicateKey)
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "Table " + id
	}
	for _, t := range r.tables {
		if models.SameKey(t.Name, name) {
			return nil, fmt.Errorf("%q: %w", name, models.ErrDuplicateName)
		}
	}

	t := &models.Table{
		ID:           id,
		Name:         name,
		Cart:         []models.CartLine{},
		PrintedItems: []models.PrintedItem{},
	}
	r.tables[id] = t
	if n, err := strconv.Atoi(id); err == nil && n >= r.nextID {
		r.nextID = n + 1
	}
	return t, nil
}

func (r *Registry) allocateID() string {
	for {
		id := strconv.Itoa(r.nextID)
		if _, exists := r.tables[id]; !exists {
			return id
		}
		r.nextID++
	}
}

// Delete removes a table. The active table and tables with items in their
// cart cannot be deleted.
func (r *Registry) Delete(id string) error {
	t, ok := r.tables[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, models.ErrTableNotFound)
	}
	if id == r.active {
		return fmt.Errorf("%q: %w", t.Name, models.ErrTableIsActive)
	}
	if !t.IsEmpty() {
		return fmt.Errorf("%q: %w", t.Name, models.ErrTableNotEmpty)
	}
	delete(r.tables, id)
	return nil
}

// Select makes id the active table. When outgoingNotes is non-nil it is
// stored on the previously active table first.
func (r *Registry) Select(id string, outgoingNotes *string) (*models.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, models.ErrTableNotFound)
	}
	if prev, ok := r.tables[r.active]; ok && outgoingNotes != nil {
		prev.Notes = *outgoingNotes
	}
	r.active = id
	return t, nil
}

// Deselect clears the active table.
func (r *Registry) Deselect() {
	r.active = ""
}

// ActiveID returns the id of the active table, or "" when none is selected.
func (r *Registry) ActiveID() string {
	return r.active
}

// Get returns the live table with the given id.
func (r *Registry) Get(id string) (*models.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, models.ErrTableNotFound)
	}
	return t, nil
}

// Resolve returns the table a command targets: the given id, or the active
// table when id is empty.
func (r *Registry) Resolve(id string) (*models.Table, error) {
	if id == "" {
		if r.active == "" {
			return nil, models.ErrNoActiveTable
		}
		id = r.active
	}
	return r.Get(id)
}

// ActiveCart returns a copy of the active table's cart. It is empty, never
// nil, when no table is selected.
func (r *Registry) ActiveCart() []models.CartLine {
	t, ok := r.tables[r.active]
	if !ok {
		return []models.CartLine{}
	}
	out := make([]models.CartLine, len(t.Cart))
	copy(out, t.Cart)
	return out
}

func (r *Registry) NextID() int {
	return r.nextID
}

// List returns copies of all tables, numeric ids first in numeric order,
// then the rest alphabetically.
func (r *Registry) List() []*models.Table {
	out := make([]*models.Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return lessID(out[i].ID, out[j].ID)
	})
	return out
}

// Tables returns a deep copy of the table map.
func (r *Registry) Tables() map[string]*models.Table {
	out := make(map[string]*models.Table, len(r.tables))
	for id, t := range r.tables {
		out[id] = t.Clone()
	}
	return out
}

func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
