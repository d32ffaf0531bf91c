// Package ai defines the content-generation surface the pipeline depends on.
package ai

import "context"

// Generator produces text for a prompt against one model endpoint.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
