package main

import (
	"strings"
	"time"

	"github.com/EduardKrecmer/pizzeria-web/cart"
	"github.com/EduardKrecmer/pizzeria-web/order"
)

type NewOrderRequest struct {
	CustomerName       string      `json:"customerName"`
	CustomerEmail      string      `json:"customerEmail"`
	CustomerPhone      string      `json:"customerPhone"`
	DeliveryAddress    string      `json:"deliveryAddress"`
	DeliveryCity       string      `json:"deliveryCity"`
	DeliveryCityPart   string      `json:"deliveryCityPart"`
	DeliveryPostalCode string      `json:"deliveryPostalCode"`
	DeliveryType       string      `json:"deliveryType"`
	DeliveryFee        float64     `json:"deliveryFee"`
	Notes              string      `json:"notes"`
	Items              []cart.Item `json:"items"`
	TotalAmount        float64     `json:"totalAmount"`
}

// toSubmission maps the request to a submission. Older clients append
// the city part to the address as "street (Part)", so when the
// dedicated field is empty it is recovered from that suffix.
func (r NewOrderRequest) toSubmission() order.Submission {
	address := r.DeliveryAddress
	part := r.DeliveryCityPart
	if part == "" {
		if open := strings.LastIndex(address, "("); open >= 0 && strings.HasSuffix(address, ")") {
			part = strings.TrimSpace(address[open+1 : len(address)-1])
			address = strings.TrimSpace(address[:open])
		}
	}

	return order.Submission{
		CustomerName:       strings.TrimSpace(r.CustomerName),
		CustomerEmail:      strings.TrimSpace(r.CustomerEmail),
		CustomerPhone:      strings.TrimSpace(r.CustomerPhone),
		DeliveryAddress:    address,
		DeliveryCity:       strings.TrimSpace(r.DeliveryCity),
		DeliveryCityPart:   part,
		DeliveryPostalCode: strings.TrimSpace(r.DeliveryPostalCode),
		DeliveryType:       cart.DeliveryType(r.DeliveryType),
		Notes:              r.Notes,
		Items:              r.Items,
	}
}

type OrderResponse struct {
	ID      int64     `json:"id"`
	Status  string    `json:"status"`
	Created time.Time `json:"created"`
}

type TestEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Attempts  int    `json:"attempts"`
	Error     string `json:"error,omitempty"`
}

// EmailConfigResponse reports which SMTP settings are present without
// leaking their values.
type EmailConfigResponse struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	SSL         bool   `json:"ssl"`
	UsernameSet bool   `json:"usernameSet"`
	PasswordSet bool   `json:"passwordSet"`
	From        string `json:"from"`
	Restaurant  string `json:"restaurant"`
}
