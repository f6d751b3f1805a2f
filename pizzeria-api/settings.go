package main

import (
	"bytes"
	"log"
	"strings"

	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/EduardKrecmer/pizzeria-web/mail"
	"github.com/EduardKrecmer/pizzeria-web/pubsub"
	"github.com/EduardKrecmer/pizzeria-web/telemetry"
)

//go:embed base.yaml
var baseConfig []byte

type CORSSettings struct {
	Origins []string `mapstructure:"origins" validate:"min=1,dive,url"`
	Methods []string `mapstructure:"methods" validate:"min=1,dive,oneof=GET POST PUT DELETE OPTIONS PATCH HEAD"`
	Headers []string `mapstructure:"headers" validate:"min=1,dive,baseheader"`
}

type HTTPSettings struct {
	Port string       `mapstructure:"port" validate:"required,numeric"`
	IP   string       `mapstructure:"ip" validate:"required,ip"`
	CORS CORSSettings `mapstructure:"cors" validate:"required"`
}

type DatabaseSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

type Settings struct {
	App           telemetry.AppSettings `mapstructure:"app" validate:"required"`
	HTTP          HTTPSettings          `mapstructure:"http" validate:"required"`
	Mail          mail.Settings         `mapstructure:"mail" validate:"required"`
	Database      DatabaseSettings      `mapstructure:"database"`
	Nats          pubsub.NATSSettings   `mapstructure:"nats"`
	OpenTelemetry telemetry.Settings    `mapstructure:"opentelemetry" validate:"required"`
}

func LoadConfig() (*Settings, error) {
	var cfg *Settings

	viper.SetConfigType("yaml")
	err := viper.ReadConfig(bytes.NewReader(baseConfig))
	if err != nil {
		log.Println("Failed to read config from yaml")
		return nil, err
	}

	viper.SetEnvPrefix("PIZZERIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	viper.AutomaticEnv()

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	validate := newValidator()
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New()
	allowedHeaders := map[string]struct{}{
		"Accept": {}, "Authorization": {}, "Content-Type": {}, "X-CSRF-Token": {},
	}
	validate.RegisterValidation("baseheader", func(fl validator.FieldLevel) bool {
		header := fl.Field().String()
		_, ok := allowedHeaders[header]
		return ok
	})
	return validate
}
