package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Fallback sends the prompt to the primary generator and, on any error,
// retries exactly once against the secondary one. No backoff, no further
// tiers.
type Fallback struct {
	primary   Generator
	secondary Generator
	logger    *zap.Logger
}

func NewFallback(primary, secondary Generator, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

func (f *Fallback) GenerateContent(ctx context.Context, prompt string) (string, error) {
	out, err := f.primary.GenerateContent(ctx, prompt)
	if err == nil {
		return out, nil
	}

	if f.secondary == nil {
		return "", err
	}

	f.logger.Warn("primary model failed, retrying with fallback",
		zap.String("primary_model", f.primary.Model()),
		zap.String("fallback_model", f.secondary.Model()),
		zap.Error(err),
	)

	out, ferr := f.secondary.GenerateContent(ctx, prompt)
	if ferr != nil {
		return "", fmt.Errorf("primary %s: %v; fallback %s: %w",
			f.primary.Model(), err, f.secondary.Model(), ferr)
	}
	return out, nil
}

func (f *Fallback) Model() string {
	return f.primary.Model()
}
