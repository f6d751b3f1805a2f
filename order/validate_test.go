package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EduardKrecmer/pizzeria-web/cart"
)

func validSubmission() Submission {
	return Submission{
		CustomerName:       "Ján Novák",
		CustomerEmail:      "jan.novak@example.com",
		CustomerPhone:      "0901 234 567",
		DeliveryAddress:    "Moravská 12",
		DeliveryCity:       "Dohňany",
		DeliveryPostalCode: "02051",
		DeliveryType:       cart.Delivery,
		Items: []cart.Item{
			{PizzaID: 1, Name: "Margherita", Price: 6.50, Variant: cart.VariantRegular, Quantity: 2},
		},
	}
}

func TestValidateAcceptsCompleteSubmission(t *testing.T) {
	assert.Nil(t, Validate(validSubmission()))
}

func TestValidateFieldRules(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(*Submission)
		expectedField string
	}{
		{
			name:          "missing name",
			mutate:        func(s *Submission) { s.CustomerName = "  " },
			expectedField: "customerName",
		},
		{
			name:          "missing phone",
			mutate:        func(s *Submission) { s.CustomerPhone = "" },
			expectedField: "customerPhone",
		},
		{
			name:          "phone with letters",
			mutate:        func(s *Submission) { s.CustomerPhone = "09o1234567" },
			expectedField: "customerPhone",
		},
		{
			name:          "phone too short",
			mutate:        func(s *Submission) { s.CustomerPhone = "0901 234" },
			expectedField: "customerPhone",
		},
		{
			name:          "phone with enough length but too few digits",
			mutate:        func(s *Submission) { s.CustomerPhone = "090-12- - 3" },
			expectedField: "customerPhone",
		},
		{
			name:          "malformed email",
			mutate:        func(s *Submission) { s.CustomerEmail = "not-an-email" },
			expectedField: "customerEmail",
		},
		{
			name:          "delivery without address",
			mutate:        func(s *Submission) { s.DeliveryAddress = "" },
			expectedField: "deliveryAddress",
		},
		{
			name:          "delivery without city",
			mutate:        func(s *Submission) { s.DeliveryCity = "" },
			expectedField: "deliveryCity",
		},
		{
			name:          "delivery to unserved city",
			mutate:        func(s *Submission) { s.DeliveryCity = "Bratislava" },
			expectedField: "deliveryCity",
		},
		{
			name:          "unknown delivery type",
			mutate:        func(s *Submission) { s.DeliveryType = "COURIER" },
			expectedField: "deliveryType",
		},
		{
			name:          "no items",
			mutate:        func(s *Submission) { s.Items = nil },
			expectedField: "items",
		},
		{
			name:          "item with bad variant",
			mutate:        func(s *Submission) { s.Items[0].Variant = "HUGE" },
			expectedField: "items",
		},
		{
			name:          "item with zero quantity",
			mutate:        func(s *Submission) { s.Items[0].Quantity = 0 },
			expectedField: "items",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			s := validSubmission()
			tc.mutate(&s)

			// Act
			err := Validate(s)

			// Assert
			require.NotNil(t, err)
			assert.Contains(t, err.Fields, tc.expectedField)
		})
	}
}

func TestValidateEmailOptional(t *testing.T) {
	// Arrange
	s := validSubmission()
	s.CustomerEmail = ""

	// Assert
	assert.Nil(t, Validate(s))
}

func TestValidatePickupNeedsNoAddress(t *testing.T) {
	// Arrange
	s := validSubmission()
	s.DeliveryType = cart.Pickup
	s.DeliveryAddress = ""
	s.DeliveryCity = ""

	// Assert
	assert.Nil(t, Validate(s))
}

func TestValidateMinimumOrderFloor(t *testing.T) {
	// Two pizzas waive the delivery fee, so the totals below are the
	// plain item sums.
	testCases := []struct {
		name      string
		city      string
		part      string
		unitPrice float64
		quantity  int
		rejected  bool
	}{
		{
			name:      "one cent under the Púchov floor",
			city:      "Púchov",
			part:      "Púchov",
			unitPrice: 7.495,
			quantity:  2,
			rejected:  true,
		},
		{
			name:      "exactly on the Púchov floor",
			city:      "Púchov",
			part:      "Púchov",
			unitPrice: 7.50,
			quantity:  2,
			rejected:  false,
		},
		{
			name:      "under the Čertov floor",
			city:      "Lazy pod Makytou",
			part:      "Čertov",
			unitPrice: 9.00,
			quantity:  2,
			rejected:  true,
		},
		{
			name:      "village has no floor",
			city:      "Zubák",
			part:      "Zubák",
			unitPrice: 6.50,
			quantity:  1,
			rejected:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			s := validSubmission()
			s.DeliveryCity = tc.city
			s.DeliveryCityPart = tc.part
			s.Items = []cart.Item{
				{PizzaID: 1, Name: "Margherita", Price: tc.unitPrice, Variant: cart.VariantRegular, Quantity: tc.quantity},
			}

			// Act
			err := Validate(s)

			// Assert
			if tc.rejected {
				require.NotNil(t, err)
				assert.Contains(t, err.Fields, "minimumOrder")
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestValidateMinimumOrderIgnoredForPickup(t *testing.T) {
	// Arrange
	s := validSubmission()
	s.DeliveryType = cart.Pickup
	s.DeliveryCity = "Púchov"
	s.DeliveryCityPart = "Hoštiná"
	s.Items = []cart.Item{
		{PizzaID: 1, Name: "Margherita", Price: 6.50, Variant: cart.VariantRegular, Quantity: 1},
	}

	// Assert
	assert.Nil(t, Validate(s))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{"customerName": "Meno je povinné"}}
	assert.Contains(t, err.Error(), "customerName")
}
