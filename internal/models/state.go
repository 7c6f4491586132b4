package models

import "strconv"

// State is the persisted shape of a terminal. Stores load and save exactly
// this structure, and an engine can be rebuilt from it without loss.
type State struct {
	Inventory     []InventoryItem   `json:"inventory"`
	Recipes       []Recipe          `json:"recipes"`
	Tables        map[string]*Table `json:"tables"`
	Losses        []LossEntry       `json:"losses"`
	Sales         []SaleRecord      `json:"sales"`
	Shifts        []Shift           `json:"shifts"`
	NextTableID   int               `json:"next_table_id"`
	ActiveTableID string            `json:"active_table_id,omitempty"`
}

// Normalize replaces nil collections with empty ones, fills in missing
// table ids and recomputes NextTableID when it is missing.
func (s *State) Normalize() {
	if s.Inventory == nil {
		s.Inventory = []InventoryItem{}
	}
	if s.Recipes == nil {
		s.Recipes = []Recipe{}
	}
	for i := range s.Recipes {
		if s.Recipes[i].Ingredients == nil {
			s.Recipes[i].Ingredients = []RecipeIngredient{}
		}
	}
	if s.Tables == nil {
		s.Tables = map[string]*Table{}
	}
	for id, t := range s.Tables {
		if t == nil {
			delete(s.Tables, id)
			continue
		}
		if t.ID == "" {
			t.ID = id
		}
		if t.Cart == nil {
			t.Cart = []CartLine{}
		}
		if t.PrintedItems == nil {
			t.PrintedItems = []PrintedItem{}
		}
	}
	if s.Losses == nil {
		s.Losses = []LossEntry{}
	}
	if s.Sales == nil {
		s.Sales = []SaleRecord{}
	}
	for i := range s.Sales {
		if s.Sales[i].Items == nil {
			s.Sales[i].Items = []SaleLine{}
		}
	}
	if s.Shifts == nil {
		s.Shifts = []Shift{}
	}
	if s.NextTableID < 1 {
		next := 1
		for id := range s.Tables {
			if n, err := strconv.Atoi(id); err == nil && n >= next {
				next = n + 1
			}
		}
		s.NextTableID = next
	}
	if _, ok := s.Tables[s.ActiveTableID]; !ok {
		s.ActiveTableID = ""
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		Inventory:     make([]InventoryItem, len(s.Inventory)),
		Recipes:       make([]Recipe, len(s.Recipes)),
		Tables:        make(map[string]*Table, len(s.Tables)),
		Losses:        make([]LossEntry, len(s.Losses)),
		Sales:         make([]SaleRecord, len(s.Sales)),
		Shifts:        make([]Shift, len(s.Shifts)),
		NextTableID:   s.NextTableID,
		ActiveTableID: s.ActiveTableID,
	}
	copy(out.Inventory, s.Inventory)
	for i, r := range s.Recipes {
		out.Recipes[i] = r.Clone()
	}
	for id, t := range s.Tables {
		out.Tables[id] = t.Clone()
	}
	copy(out.Losses, s.Losses)
	for i, sale := range s.Sales {
		out.Sales[i] = sale.Clone()
	}
	for i, sh := range s.Shifts {
		out.Shifts[i] = sh.Clone()
	}
	return out
}

// NewState returns an empty terminal with tables "1".."n" named
// "Table 1".."Table n".
func NewState(tables int) *State {
	s := &State{Tables: make(map[string]*Table, tables)}
	for i := 1; i <= tables; i++ {
		id := strconv.Itoa(i)
		s.Tables[id] = &Table{ID: id, Name: "Table " + id}
	}
	s.NextTableID = tables + 1
	s.Normalize()
	return s
}
