package gemini

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   ", Options{}); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestGenerationConfigDefaults(t *testing.T) {
	cfg := generationConfig(Options{MaxOutputTokens: 2048})

	if cfg.MaxOutputTokens != 2048 {
		t.Fatalf("unexpected output budget: %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature != nil || cfg.TopP != nil || cfg.TopK != nil {
		t.Fatalf("unset sampling params must stay nil: %+v", cfg)
	}
	if len(cfg.SafetySettings) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(cfg.SafetySettings))
	}
	for _, setting := range cfg.SafetySettings {
		if setting.Threshold != genai.HarmBlockThresholdBlockMediumAndAbove {
			t.Fatalf("unexpected threshold for %s: %s", setting.Category, setting.Threshold)
		}
	}
}

func TestGenerationConfigSamplingParams(t *testing.T) {
	cfg := generationConfig(Options{
		MaxOutputTokens: 8192,
		Temperature:     0.2,
		TopP:            0.95,
		TopK:            40,
	})

	if cfg.Temperature == nil || *cfg.Temperature != 0.2 {
		t.Fatalf("temperature not applied: %+v", cfg.Temperature)
	}
	if cfg.TopP == nil || *cfg.TopP != 0.95 {
		t.Fatalf("topP not applied: %+v", cfg.TopP)
	}
	if cfg.TopK == nil || *cfg.TopK != 40 {
		t.Fatalf("topK not applied: %+v", cfg.TopK)
	}
}
