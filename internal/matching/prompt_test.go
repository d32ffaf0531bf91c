package matching

import (
	"strings"
	"testing"

	"github.com/teammatch/matchflow/internal/model"
)

func TestBuildPromptEmbedsDataAndConstraints(t *testing.T) {
	people := []*model.Profile{
		{UID: "u1", Skills: []string{"flutter"}, RemoteOpen: true},
	}
	projects := []*model.Project{
		{ProjectID: "p1", Title: "mobile app", SkillsNeeded: []string{"flutter"}},
	}

	prompt, err := BuildPrompt(people, projects, PromptParams{
		MinScore:        0.35,
		MaxSuggestions:  5,
		MaxReasonLength: 80,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		`"uid": "u1"`,
		`"projectId": "p1"`,
		"0.35",
		"at most 5 projects",
		"under 80 characters",
		`{"fromUid": string, "toProjectId": string, "score": number, "reason": string}`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q:\n%s", want, prompt)
		}
	}

	if strings.Contains(prompt, "{{") {
		t.Fatalf("prompt has unreplaced placeholders:\n%s", prompt)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	people := []*model.Profile{{UID: "u1"}, {UID: "u2"}}
	projects := []*model.Project{{ProjectID: "p1"}}
	params := PromptParams{MinScore: 0.35, MaxSuggestions: 5, MaxReasonLength: 80}

	first, err := BuildPrompt(people, projects, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildPrompt(people, projects, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatalf("prompt is not deterministic")
	}
}
