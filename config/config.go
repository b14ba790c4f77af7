package config

import (
	"os"
	"strings"
)

// Config is loaded once at startup and passed to the components that need
// it; nothing reads the environment after bootstrap.
type Config struct {
	Port           string
	Environment    string
	GatewayAPIKey  string
	GatewayBaseURL string
	OIDCToken      string
	SandboxURL     string
}

func Load() Config {
	port := getenv("PORT")
	if port == "" {
		port = "3000"
	}
	environment := getenv("VERCEL_ENV")
	if environment == "" {
		environment = "development"
	}
	baseURL := getenv("AI_GATEWAY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://ai-gateway.vercel.sh/v1"
	}
	sandboxURL := getenv("SANDBOX_URL")
	if sandboxURL == "" {
		sandboxURL = "http://localhost:8070"
	}
	return Config{
		Port:           port,
		Environment:    environment,
		GatewayAPIKey:  getenv("AI_GATEWAY_API_KEY"),
		GatewayBaseURL: baseURL,
		OIDCToken:      getenv("VERCEL_OIDC_TOKEN"),
		SandboxURL:     sandboxURL,
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
