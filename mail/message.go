package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/EduardKrecmer/pizzeria-web/cart"
	"github.com/EduardKrecmer/pizzeria-web/order"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
)

type itemView struct {
	Name        string
	Variant     string
	Quantity    int
	Ingredients string
	Extras      string
	LineTotal   string
}

type orderView struct {
	ID           int64
	CustomerName string
	Email        string
	Phone        string
	Pickup       bool
	Address      string
	City         string
	CityPart     string
	PostalCode   string
	Notes        string
	Items        []itemView
	Subtotal     string
	DeliveryFee  string
	Total        string
	PlacedAt     string
}

func euro(v float64) string {
	return fmt.Sprintf("%.2f€", v)
}

func newOrderView(o *order.Order) orderView {
	items := make([]itemView, 0, len(o.Items))
	for _, it := range o.Items {
		extras := make([]string, 0, len(it.Extras))
		for _, e := range it.Extras {
			extras = append(extras, e.Name)
		}
		items = append(items, itemView{
			Name:        it.Name,
			Variant:     it.Variant.Label(),
			Quantity:    it.Quantity,
			Ingredients: strings.Join(it.Ingredients, ", "),
			Extras:      strings.Join(extras, ", "),
			LineTotal:   euro(it.Price * float64(it.Quantity)),
		})
	}

	placedAt := o.CreatedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	return orderView{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Email:        o.CustomerEmail,
		Phone:        o.CustomerPhone,
		Pickup:       o.DeliveryType == cart.Pickup,
		Address:      o.DeliveryAddress,
		City:         o.DeliveryCity,
		CityPart:     o.DeliveryCityPart,
		PostalCode:   o.DeliveryPostalCode,
		Notes:        o.Notes,
		Items:        items,
		Subtotal:     euro(cart.RoundCents(o.TotalAmount - o.DeliveryFee)),
		DeliveryFee:  euro(o.DeliveryFee),
		Total:        euro(o.TotalAmount),
		PlacedAt:     placedAt.Format("02.01.2006 15:04"),
	}
}

func render(name string, view any) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&hb, name+".html.tmpl", view); err != nil {
		return "", "", fmt.Errorf("failed to render %s html body: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&tb, name+".txt.tmpl", view); err != nil {
		return "", "", fmt.Errorf("failed to render %s text body: %w", name, err)
	}
	return hb.String(), tb.String(), nil
}

func newMessage(s Settings, to, replyTo, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.From, s.FromName))
	m.SetHeader("To", to)
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID(s.From))
	m.SetHeader("X-Priority", "1")
	return m
}

func messageID(from string) string {
	domain := "pizzeria-janicek.sk"
	if i := strings.LastIndex(from, "@"); i >= 0 {
		domain = from[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// CustomerConfirmation is the receipt sent to the customer's address.
func CustomerConfirmation(s Settings, o *order.Order) (*gomail.Message, error) {
	html, text, err := render("customer", newOrderView(o))
	if err != nil {
		return nil, err
	}

	replyTo := s.ReplyTo
	if replyTo == "" {
		replyTo = s.From
	}
	m := newMessage(s, o.CustomerEmail, replyTo, "Potvrdenie objednávky - Pizzeria Janíček")
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)
	return m, nil
}

// RestaurantNotification is the kitchen copy. Replies go straight to
// the customer when an address is known.
func RestaurantNotification(s Settings, o *order.Order) (*gomail.Message, error) {
	html, text, err := render("restaurant", newOrderView(o))
	if err != nil {
		return nil, err
	}

	replyTo := o.CustomerEmail
	if replyTo == "" {
		replyTo = s.ReplyTo
	}
	subject := fmt.Sprintf("⭐ NOVÁ OBJEDNÁVKA #%d - %s", o.ID, o.CustomerName)
	m := newMessage(s, s.RestaurantEmail, replyTo, subject)
	// Only the kitchen copy is flagged high priority for mail clients.
	m.SetHeader("X-MSMail-Priority", "High")
	m.SetHeader("Importance", "high")
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)
	return m, nil
}

// TestMessage checks the SMTP path end to end without a real order.
func TestMessage(s Settings, to string) *gomail.Message {
	m := newMessage(s, to, s.ReplyTo, "Testovací email - Pizzeria Janíček")
	body := fmt.Sprintf(
		"Toto je testovací email z objednávkového systému Pizzeria Janíček.\n\nOdoslaný: %s\nSMTP server: %s:%d\n",
		time.Now().Format("02.01.2006 15:04:05"), s.Host, s.Port,
	)
	m.SetBody("text/plain", body)
	return m
}
