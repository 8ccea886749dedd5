package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, TierLite, config.Tier)
	assert.Equal(t, "gemini-2.5-flash-lite", config.AnswerModel())
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, DefaultTemperature, config.Temperature)
	assert.Equal(t, DefaultInitTimeout, config.InitTimeout)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithModel("custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-flash-lite", config.AnswerModel())
	assert.Equal(t, "custom-model", custom.AnswerModel())
	assert.Equal(t, "gemini-2.5-pro", custom.GetModel(TierAdvanced))
	assert.Equal(t, config.Temperature, custom.Temperature)
}

func TestWithModel_NoTier(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{}}
	custom := config.WithModel("m")

	assert.Equal(t, TierLite, custom.Tier)
	assert.Equal(t, "m", custom.AnswerModel())
}
