// Package order holds the order aggregate and the submission pipeline:
// validation, server-side repricing, persistence and notification
// fan-out.
package order

import (
	"time"

	"github.com/EduardKrecmer/pizzeria-web/cart"
)

// Status values an order moves through. Orders are created pending and
// advanced manually by the restaurant.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order is a persisted order. DeliveryFee and TotalAmount are always
// recomputed on the server from the items, never trusted from the
// client.
type Order struct {
	ID                 int64             `json:"id"`
	CustomerName       string            `json:"customerName"`
	CustomerEmail      string            `json:"customerEmail"`
	CustomerPhone      string            `json:"customerPhone"`
	DeliveryAddress    string            `json:"deliveryAddress"`
	DeliveryCity       string            `json:"deliveryCity"`
	DeliveryCityPart   string            `json:"deliveryCityPart,omitempty"`
	DeliveryPostalCode string            `json:"deliveryPostalCode"`
	DeliveryType       cart.DeliveryType `json:"deliveryType"`
	DeliveryFee        float64           `json:"deliveryFee"`
	Notes              string            `json:"notes"`
	Items              []cart.Item       `json:"items"`
	TotalAmount        float64           `json:"totalAmount"`
	Status             string            `json:"status"`
	CreatedAt          time.Time         `json:"created"`
}

// Submission is what the customer sends. Any fee or total the client
// computed is ignored.
type Submission struct {
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	DeliveryAddress    string
	DeliveryCity       string
	DeliveryCityPart   string
	DeliveryPostalCode string
	DeliveryType       cart.DeliveryType
	Notes              string
	Items              []cart.Item
}
