package llmcoach

// Config holds generation settings.
type Config struct {
	ScoreMaxTokens int
	PlanMaxTokens  int
	Temperature    float64
}

// DefaultConfig returns sensible defaults for scoring and planning.
func DefaultConfig() Config {
	return Config{
		ScoreMaxTokens: 512,
		PlanMaxTokens:  2048,
		Temperature:    0.4,
	}
}
