package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSubmissionUsesExplicitCityPart(t *testing.T) {
	// Arrange
	req := NewOrderRequest{
		CustomerName:     " Ján Novák ",
		DeliveryAddress:  "Moravská 12",
		DeliveryCity:     "Púchov",
		DeliveryCityPart: "Nosice",
	}

	// Act
	s := req.toSubmission()

	// Assert
	assert.Equal(t, "Ján Novák", s.CustomerName)
	assert.Equal(t, "Moravská 12", s.DeliveryAddress)
	assert.Equal(t, "Nosice", s.DeliveryCityPart)
}

func TestToSubmissionParsesPartFromAddressSuffix(t *testing.T) {
	// Arrange
	req := NewOrderRequest{
		DeliveryAddress: "Moravská 12 (Horné Kočkovce)",
		DeliveryCity:    "Púchov",
	}

	// Act
	s := req.toSubmission()

	// Assert
	assert.Equal(t, "Moravská 12", s.DeliveryAddress)
	assert.Equal(t, "Horné Kočkovce", s.DeliveryCityPart)
}

func TestToSubmissionLeavesPlainAddressAlone(t *testing.T) {
	// Arrange
	req := NewOrderRequest{
		DeliveryAddress: "Moravská 12",
		DeliveryCity:    "Beluša",
	}

	// Act
	s := req.toSubmission()

	// Assert
	assert.Equal(t, "Moravská 12", s.DeliveryAddress)
	assert.Empty(t, s.DeliveryCityPart)
}
