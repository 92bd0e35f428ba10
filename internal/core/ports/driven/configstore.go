package driven

// ConfigStore provides persistent application configuration.
// Keys are flat strings (e.g. "provider.default", "retrieval.k").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when absent.
	GetInt(key string) int

	// Set stores a configuration value.
	Set(key string, value any) error

	// Save persists the configuration.
	Save() error
}
