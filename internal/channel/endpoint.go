package channel

import "strings"

// Fixed base addresses for the game authority. Which one applies is an
// environment decision; the client itself always takes an explicit URL.
const (
	ProductionBaseURL  = "wss://back.roilabs.com.br:5000"
	DevelopmentBaseURL = "ws://localhost:5002"
)

// ResolveBaseURL selects the channel base address from an environment
// signal: the runtime mode, or a hostname served from the production
// domain.
func ResolveBaseURL(mode, hostname string) string {
	if mode == "production" || strings.Contains(hostname, "roilabs.com") {
		return ProductionBaseURL
	}
	return DevelopmentBaseURL
}

// GameEndpoint derives the game namespace endpoint from a base address.
func GameEndpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/game"
}
