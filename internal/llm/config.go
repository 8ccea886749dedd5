// Package llm provides the language model configuration, the provider client
// and the inference service used to answer free-form application questions.
package llm

import "time"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short answers where latency matters most
	TierLite ModelTier = "lite"
	// TierStandard is for longer answers that need some reasoning
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for expensive, high quality answers
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps answers close to the candidate facts in the prompt.
const DefaultTemperature float32 = 0.3

// DefaultInitTimeout bounds model initialization started by Download.
const DefaultInitTimeout = 60 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Tier        ModelTier
	Temperature float32
	InitTimeout time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Tier:        TierLite,
		Temperature: DefaultTemperature,
		InitTimeout: DefaultInitTimeout,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// AnswerModel returns the model used for answering questions.
func (c *Config) AnswerModel() string {
	return c.GetModel(c.Tier)
}

// WithModel returns a new Config that answers with model.
// The model is assigned to the config's answer tier.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	if out.Tier == "" {
		out.Tier = TierLite
	}
	out.Models[out.Tier] = model
	return &out
}
