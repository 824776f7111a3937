package api

// Config holds the client configuration resolved from the environment at
// startup.
type Config struct {
	// BaseURL is the root of the remote library service. All resource
	// paths are relative to {BaseURL}/api.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
}
