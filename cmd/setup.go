package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/ai"
	"github.com/teammatch/matchflow/internal/ai/gemini"
	"github.com/teammatch/matchflow/internal/pipeline"
	"github.com/teammatch/matchflow/internal/secrets"
	"github.com/teammatch/matchflow/internal/store"
)

const (
	defaultPrimaryModel       = "gemini-2.5-pro"
	defaultFallbackModel      = "gemini-2.5-flash"
	defaultPrimaryMaxTokens   = 8192
	defaultFallbackMaxTokens  = 2048
	defaultPrimaryTemperature = 0.2
)

func newStore(ctx context.Context, config *Config) (*store.Firestore, error) {
	return store.NewFirestore(ctx, config.ProjectID, config.CredentialsFile)
}

// newGenerator builds the primary model client plus the lower-budget
// fallback one, wrapped so the pipeline retries exactly once.
func newGenerator(ctx context.Context, config *Config, logger *zap.Logger) (ai.Generator, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is required")
	}
	cfg := config.AI.Gemini

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	primaryModel := strings.TrimSpace(cfg.Model)
	if primaryModel == "" {
		primaryModel = defaultPrimaryModel
	}

	primaryTokens := cfg.MaxOutputTokens
	if primaryTokens <= 0 {
		primaryTokens = defaultPrimaryMaxTokens
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultPrimaryTemperature
	}

	primary, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:           primaryModel,
		MaxOutputTokens: primaryTokens,
		Temperature:     temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
	})
	if err != nil {
		return nil, fmt.Errorf("building primary generator: %w", err)
	}

	fallbackModel := strings.TrimSpace(cfg.FallbackModel)
	if fallbackModel == "" {
		fallbackModel = defaultFallbackModel
	}

	fallbackTokens := cfg.FallbackMaxOutputTokens
	if fallbackTokens <= 0 {
		fallbackTokens = defaultFallbackMaxTokens
	}

	secondary, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:           fallbackModel,
		MaxOutputTokens: fallbackTokens,
		Temperature:     temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
	})
	if err != nil {
		return nil, fmt.Errorf("building fallback generator: %w", err)
	}

	return ai.NewFallback(primary, secondary, logger), nil
}

func pipelineConfig(config *Config) pipeline.Config {
	cfg := pipeline.Config{}
	if config.Pipeline == nil {
		return cfg
	}

	cfg.DrainLimit = config.Pipeline.DrainLimit
	cfg.ChunkSize = config.Pipeline.ChunkSize
	cfg.MinScore = config.Pipeline.MinScore
	cfg.MaxSuggestions = config.Pipeline.MaxSuggestions
	cfg.MaxReasonLength = config.Pipeline.MaxReasonLength
	if config.Pipeline.MatchTTLDays > 0 {
		cfg.MatchTTL = time.Duration(config.Pipeline.MatchTTLDays) * 24 * time.Hour
	}
	return cfg
}
