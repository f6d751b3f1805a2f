// Package cart implements the pricing engine: per-item unit prices
// built from the base price, a variant surcharge and selected extras,
// plus the delivery-fee rule applied to the whole cart.
package cart

import (
	"math"

	"github.com/EduardKrecmer/pizzeria-web/catalog"
)

// Variant is a named pizza preparation option with a fixed additive
// surcharge.
type Variant string

const (
	VariantRegular    Variant = "REGULAR"
	VariantCream      Variant = "CREAM"
	VariantThick      Variant = "THICK"
	VariantGlutenFree Variant = "GLUTEN_FREE"
	VariantVegan      Variant = "VEGAN"
)

var variantSurcharge = map[Variant]float64{
	VariantRegular:    0,
	VariantCream:      0,
	VariantThick:      1.00,
	VariantGlutenFree: 1.50,
	VariantVegan:      2.00,
}

var variantLabel = map[Variant]string{
	VariantRegular:    "Klasická",
	VariantCream:      "Smotanový základ",
	VariantThick:      "Hrubé cesto",
	VariantGlutenFree: "Bezlepková",
	VariantVegan:      "Vegánska",
}

func (v Variant) Valid() bool {
	_, ok := variantSurcharge[v]
	return ok
}

func (v Variant) Surcharge() float64 {
	return variantSurcharge[v]
}

// Label returns the Slovak display name used in order summaries and
// emails. Unknown variants fall back to the raw value.
func (v Variant) Label() string {
	if l, ok := variantLabel[v]; ok {
		return l
	}
	return string(v)
}

type DeliveryType string

const (
	Delivery DeliveryType = "DELIVERY"
	Pickup   DeliveryType = "PICKUP"
)

const (
	// flatDeliveryFee applies to delivery orders below the free
	// threshold.
	flatDeliveryFee = 1.50
	// freeDeliveryQuantity is the total pizza count at which delivery
	// becomes free.
	freeDeliveryQuantity = 2
)

// SelectedExtra is a topping chosen for one cart item; the price is a
// snapshot taken from the catalog at selection time.
type SelectedExtra struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Item is one cart line. Price is the unit price snapshot computed at
// add time (base + variant surcharge + extras).
type Item struct {
	PizzaID     int             `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Variant     Variant         `json:"size"`
	Quantity    int             `json:"quantity"`
	Ingredients []string        `json:"ingredients"`
	Extras      []SelectedExtra `json:"extras"`
}

// UnitPrice computes the price of a single pizza with the given variant
// and extras.
func UnitPrice(base float64, v Variant, extras []SelectedExtra) float64 {
	price := base + v.Surcharge()
	for _, e := range extras {
		price += e.Price
	}
	return RoundCents(price)
}

// RoundCents rounds to two decimals. Business-rule comparisons (the
// minimum-order floors) happen on cent-rounded values.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from previously priced items, keeping their
// unit-price snapshots. Used when recomputing totals for a submitted
// order.
func FromItems(items []Item) *Cart {
	c := &Cart{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// AddItem prices a pizza with the chosen variant and extras and appends
// it to the cart. The ingredient list may have been edited by the
// customer, so it is carried verbatim.
func (c *Cart) AddItem(p catalog.Pizza, v Variant, quantity int, ingredients []string, extras []SelectedExtra) Item {
	if quantity < 1 {
		quantity = 1
	}
	item := Item{
		PizzaID:     p.ID,
		Name:        p.Name,
		Price:       UnitPrice(p.Price, v, extras),
		Variant:     v,
		Quantity:    quantity,
		Ingredients: ingredients,
		Extras:      extras,
	}
	c.items = append(c.items, item)
	return item
}

func (c *Cart) RemoveItem(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
}

func (c *Cart) SetQuantity(index, quantity int) {
	if index < 0 || index >= len(c.items) || quantity < 1 {
		return
	}
	c.items[index].Quantity = quantity
}

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// TotalQuantity is the pizza count across all lines, the input to the
// free-delivery rule.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() float64 {
	sum := 0.0
	for _, it := range c.items {
		sum += it.Price * float64(it.Quantity)
	}
	return RoundCents(sum)
}

// DeliveryFee is zero for pickup and for carts with two or more pizzas;
// a single delivered pizza pays the flat fee.
func (c *Cart) DeliveryFee(dt DeliveryType) float64 {
	if dt == Pickup {
		return 0
	}
	if c.TotalQuantity() >= freeDeliveryQuantity {
		return 0
	}
	return flatDeliveryFee
}

func (c *Cart) Total(dt DeliveryType) float64 {
	return RoundCents(c.Subtotal() + c.DeliveryFee(dt))
}
