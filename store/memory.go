// Package store persists orders. The Postgres store is the primary
// backend; the in-memory store doubles as a development backend and as
// the fallback when the database is unreachable.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/EduardKrecmer/pizzeria-web/order"
)

// Memory keeps orders in a map guarded by a mutex. Ids start at 1 and
// are only unique within one process lifetime.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]order.Order
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, orders: map[int64]order.Order{}}
}

func (m *Memory) Save(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o.ID == 0 {
		o.ID = m.nextID
		m.nextID++
	} else if o.ID >= m.nextID {
		m.nextID = o.ID + 1
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *Memory) Get(_ context.Context, id int64) (*order.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, false, nil
	}
	return &o, true, nil
}

// List returns all stored orders, newest first.
func (m *Memory) List(_ context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

var _ order.Store = (*Memory)(nil)
