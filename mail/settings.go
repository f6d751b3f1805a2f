// Package mail builds and delivers the order emails over SMTP with a
// retry loop around each send.
package mail

import (
	"crypto/tls"

	"gopkg.in/gomail.v2"
)

type Settings struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,min=1"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	SSL      bool   `mapstructure:"ssl"`

	From     string `mapstructure:"from" validate:"required,email"`
	FromName string `mapstructure:"fromname" validate:"required"`
	ReplyTo  string `mapstructure:"replyto" validate:"omitempty,email"`

	// RestaurantEmail receives the kitchen copy of every order.
	RestaurantEmail string `mapstructure:"restaurantemail" validate:"required,email"`

	// The restaurant copy retries harder than the customer copy: a
	// lost kitchen email is a lost order.
	CustomerAttempts   int `mapstructure:"customerattempts" validate:"required,min=1"`
	RestaurantAttempts int `mapstructure:"restaurantattempts" validate:"required,min=1"`

	AttemptTimeoutInSeconds int `mapstructure:"attempttimeout" validate:"required,min=1"`
}

// TransportFactory opens a fresh SMTP connection. The dispatcher calls
// it once per attempt so a wedged connection never poisons a retry.
type TransportFactory func() (gomail.SendCloser, error)

// Transport builds a factory dialing the configured SMTP server.
func (s Settings) Transport() TransportFactory {
	return func() (gomail.SendCloser, error) {
		d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
		d.SSL = s.SSL
		if !s.SSL {
			d.TLSConfig = &tls.Config{ServerName: s.Host}
		}
		return d.Dial()
	}
}
