package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pizzeria-api", cfg.App.Name)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, 3, cfg.Mail.CustomerAttempts)
	assert.Equal(t, 5, cfg.Mail.RestaurantAttempts)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Nats.Enabled)
	assert.False(t, cfg.OpenTelemetry.Enabled)
}

func TestCORSSettingsValidation(t *testing.T) {
	// Arrange
	validate := newValidator()

	tests := []struct {
		name    string
		cors    CORSSettings
		wantErr bool
	}{
		{
			name: "valid cors",
			cors: CORSSettings{
				Origins: []string{"https://example.com"},
				Methods: []string{"GET", "POST"},
				Headers: []string{"Accept", "Authorization"},
			},
			wantErr: false,
		},
		{
			name: "invalid method",
			cors: CORSSettings{
				Origins: []string{"https://example.com"},
				Methods: []string{"FOO"},
				Headers: []string{"Accept"},
			},
			wantErr: true,
		},
		{
			name: "invalid header",
			cors: CORSSettings{
				Origins: []string{"https://example.com"},
				Methods: []string{"GET"},
				Headers: []string{"X-INVALID"},
			},
			wantErr: true,
		},
		{
			name: "invalid origin",
			cors: CORSSettings{
				Origins: []string{"*"},
				Methods: []string{"GET"},
				Headers: []string{"Accept"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		// Act
		err := validate.Struct(tt.cors)

		// Assert
		if tt.wantErr {
			assert.Error(t, err, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}
