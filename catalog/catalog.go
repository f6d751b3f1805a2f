// Package catalog holds the pizzeria's product definitions. Pizzas and
// extras are loaded once at startup from embedded JSON, normalized and
// kept immutable for the lifetime of the process.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed pizzas.json
var pizzasData []byte

//go:embed extras.json
var extrasData []byte

// defaultTag is assigned to pizzas whose source entry carries no tags.
const defaultTag = "Klasické"

type Pizza struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
	Weight      string   `json:"weight,omitempty"`
	Allergens   string   `json:"allergens,omitempty"`
}

type Extra struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Amount string  `json:"amount,omitempty"`
}

type Store struct {
	pizzas   []Pizza
	extras   []Extra
	pizzaIdx map[int]int
	extraIdx map[int]int
}

// Load builds the catalog from the embedded data files.
func Load() (*Store, error) {
	return New(pizzasData, extrasData)
}

// New builds a catalog from raw JSON. Entries are normalized: ids are
// assigned sequentially when missing, a missing tag set defaults to
// defaultTag and nil ingredient lists become empty.
func New(pizzasJSON, extrasJSON []byte) (*Store, error) {
	var pizzas []Pizza
	if err := json.Unmarshal(pizzasJSON, &pizzas); err != nil {
		return nil, fmt.Errorf("parse pizzas: %w", err)
	}
	var extras []Extra
	if err := json.Unmarshal(extrasJSON, &extras); err != nil {
		return nil, fmt.Errorf("parse extras: %w", err)
	}

	s := &Store{
		pizzas:   pizzas,
		extras:   extras,
		pizzaIdx: make(map[int]int, len(pizzas)),
		extraIdx: make(map[int]int, len(extras)),
	}

	for i := range s.pizzas {
		p := &s.pizzas[i]
		if p.ID == 0 {
			p.ID = i + 1
		}
		if len(p.Tags) == 0 {
			p.Tags = []string{defaultTag}
		}
		if p.Ingredients == nil {
			p.Ingredients = []string{}
		}
		s.pizzaIdx[p.ID] = i
	}
	for i := range s.extras {
		e := &s.extras[i]
		if e.ID == 0 {
			e.ID = i + 1
		}
		s.extraIdx[e.ID] = i
	}

	return s, nil
}

// All returns every pizza in catalog order.
func (s *Store) All() []Pizza {
	out := make([]Pizza, len(s.pizzas))
	copy(out, s.pizzas)
	return out
}

func (s *Store) ByID(id int) (Pizza, bool) {
	i, ok := s.pizzaIdx[id]
	if !ok {
		return Pizza{}, false
	}
	return s.pizzas[i], true
}

func (s *Store) Extras() []Extra {
	out := make([]Extra, len(s.extras))
	copy(out, s.extras)
	return out
}

func (s *Store) ExtraByID(id int) (Extra, bool) {
	i, ok := s.extraIdx[id]
	if !ok {
		return Extra{}, false
	}
	return s.extras[i], true
}

// Filter returns pizzas matching the given tag (exact, empty matches
// all) and query (case-insensitive substring of name or description,
// empty matches all).
func (s *Store) Filter(tag, query string) []Pizza {
	query = strings.ToLower(strings.TrimSpace(query))
	// Non-nil so an empty result serializes as [] rather than null.
	out := []Pizza{}
	for _, p := range s.pizzas {
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasTag(p Pizza, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
