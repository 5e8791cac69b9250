package explain

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Concurrency caps in-flight requests in ExplainAll.
	Concurrency int
	// Language is the language explanations are written in. Empty lets the
	// model follow the card language.
	Language string
}

// DefaultConfig returns sensible defaults for explanation generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.3,
		Concurrency: 3,
	}
}
