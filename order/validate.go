package order

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/EduardKrecmer/pizzeria-web/cart"
	"github.com/EduardKrecmer/pizzeria-web/delivery"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9\s-]{9,14}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// FieldErrors maps a request field name to a human-readable message in
// Slovak, mirroring what the order form shows.
type FieldErrors map[string]string

// ValidationError rejects a submission. Fields carries one message per
// offending field so the client can highlight them.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("invalid order submission: %s", strings.Join(keys, ", "))
}

// Validate checks a submission against the order form rules. The
// minimum-order floors compare against the cent-rounded total
// recomputed from the items, so a client-side total cannot sneak an
// order under the floor.
func Validate(s Submission) *ValidationError {
	errs := FieldErrors{}

	if strings.TrimSpace(s.CustomerName) == "" {
		errs["customerName"] = "Meno je povinné"
	}

	phone := strings.TrimSpace(s.CustomerPhone)
	switch {
	case phone == "":
		errs["customerPhone"] = "Telefón je povinný"
	case !phonePattern.MatchString(phone):
		errs["customerPhone"] = "Neplatný formát telefónu"
	case len(digitPattern.FindAllString(phone, -1)) < 9:
		errs["customerPhone"] = "Telefónne číslo musí mať aspoň 9 číslic"
	}

	// Email is optional; without it the customer simply gets no
	// confirmation message.
	if email := strings.TrimSpace(s.CustomerEmail); email != "" && !emailPattern.MatchString(email) {
		errs["customerEmail"] = "Neplatný formát e-mailu"
	}

	switch s.DeliveryType {
	case cart.Delivery:
		if strings.TrimSpace(s.DeliveryAddress) == "" {
			if delivery.RequiresStreet(s.DeliveryCity) {
				errs["deliveryAddress"] = "Ulica a číslo sú povinné"
			} else {
				errs["deliveryAddress"] = "Číslo domu je povinné"
			}
		}
		if city := strings.TrimSpace(s.DeliveryCity); city == "" {
			errs["deliveryCity"] = "Obec/Mesto je povinné"
		} else if !delivery.Served(city) {
			errs["deliveryCity"] = "Do tejto obce nedoručujeme"
		}
	case cart.Pickup:
	default:
		errs["deliveryType"] = "Neplatný spôsob doručenia"
	}

	if len(s.Items) == 0 {
		errs["items"] = "Objednávka neobsahuje žiadne položky"
	}
	for i, it := range s.Items {
		if !it.Variant.Valid() {
			errs["items"] = fmt.Sprintf("Položka %d má neplatný variant", i+1)
			break
		}
		if it.Quantity < 1 {
			errs["items"] = fmt.Sprintf("Položka %d má neplatné množstvo", i+1)
			break
		}
	}

	if s.DeliveryType == cart.Delivery && len(errs) == 0 {
		c := cart.FromItems(s.Items)
		total := c.Total(s.DeliveryType)
		if min := delivery.MinimumOrder(s.DeliveryCity, s.DeliveryCityPart); min > 0 && total < min {
			errs["minimumOrder"] = fmt.Sprintf("Minimálna hodnota objednávky pre túto lokalitu je %.2f €", min)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
