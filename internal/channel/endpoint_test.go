package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		hostname string
		want     string
	}{
		{"production mode", "production", "", ProductionBaseURL},
		{"production hostname", "development", "app.roilabs.com.br", ProductionBaseURL},
		{"development", "development", "localhost", DevelopmentBaseURL},
		{"empty signals", "", "", DevelopmentBaseURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.mode, tt.hostname))
		})
	}
}

func TestGameEndpoint(t *testing.T) {
	assert.Equal(t, "ws://localhost:5002/game", GameEndpoint(DevelopmentBaseURL))
	assert.Equal(t, "ws://localhost:5002/game", GameEndpoint("ws://localhost:5002/"))
}
