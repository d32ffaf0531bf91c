package matching

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/teammatch/matchflow/internal/model"
)

//go:embed prompt.md
var promptTemplate string

// PromptParams carries the hard constraints stated inside the prompt.
type PromptParams struct {
	MinScore        float64
	MaxSuggestions  int
	MaxReasonLength int
}

// BuildPrompt serializes one chunk of people and the full project list into
// a single self-contained instruction. Pure and deterministic.
func BuildPrompt(people []*model.Profile, projects []*model.Project, params PromptParams) (string, error) {
	peopleJSON, err := json.MarshalIndent(people, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal people: %w", err)
	}

	projectsJSON, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal projects: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{MIN_SCORE}}", strconv.FormatFloat(params.MinScore, 'f', 2, 64),
		"{{MAX_SUGGESTIONS}}", strconv.Itoa(params.MaxSuggestions),
		"{{MAX_REASON_LENGTH}}", strconv.Itoa(params.MaxReasonLength),
		"{{PEOPLE_JSON}}", string(peopleJSON),
		"{{PROJECTS_JSON}}", string(projectsJSON),
	)

	return replacer.Replace(promptTemplate), nil
}
