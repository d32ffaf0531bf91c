package matching

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestParsePairingsValidList(t *testing.T) {
	raw := `[
		{"fromUid": "u1", "toProjectId": "p1", "score": 0.8, "reason": "flutter match"},
		{"fromUid": "u2", "toProjectId": "p2", "score": 0.41, "reason": "shared interests"}
	]`

	pairings, err := ParsePairings(raw, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 2 {
		t.Fatalf("expected 2 pairings, got %d", len(pairings))
	}
	if pairings[0].FromUID != "u1" || pairings[0].ToProjectID != "p1" || pairings[0].Score != 0.8 {
		t.Fatalf("unexpected first pairing: %+v", pairings[0])
	}
	if pairings[0].Reason != "flutter match" {
		t.Fatalf("unexpected reason: %q", pairings[0].Reason)
	}
}

func TestParsePairingsStripsMarkdownFences(t *testing.T) {
	raw := "```json\n[{\"fromUid\": \"u1\", \"toProjectId\": \"p1\", \"score\": 0.5, \"reason\": \"ok\"}]\n```"

	pairings, err := ParsePairings(raw, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 1 {
		t.Fatalf("expected 1 pairing, got %d", len(pairings))
	}
}

func TestParsePairingsIgnoresSurroundingProse(t *testing.T) {
	raw := `Here are the matches you asked for:
[{"fromUid": "u1", "toProjectId": "p1", "score": 0.6, "reason": "fit"}]
Let me know if you need anything else.`

	pairings, err := ParsePairings(raw, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 1 {
		t.Fatalf("expected 1 pairing, got %d", len(pairings))
	}
}

func TestParsePairingsDropsInvalidEntries(t *testing.T) {
	raw := `[
		{"fromUid": "", "toProjectId": "p1", "score": 0.8, "reason": "no seeker"},
		{"fromUid": "u1", "toProjectId": "", "score": 0.8, "reason": "no project"},
		{"fromUid": "u2", "toProjectId": "p2", "reason": "no score"},
		{"fromUid": "u3", "toProjectId": "p3", "score": "not-a-number", "reason": "bad score"},
		{"fromUid": "u4", "toProjectId": "p4", "score": 1.7, "reason": "out of range"},
		{"fromUid": "u5", "toProjectId": "p5", "score": 0.9, "reason": "keeper"}
	]`

	pairings, err := ParsePairings(raw, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 1 {
		t.Fatalf("expected only the valid entry, got %d: %+v", len(pairings), pairings)
	}
	if pairings[0].FromUID != "u5" {
		t.Fatalf("unexpected surviving entry: %+v", pairings[0])
	}
}

func TestParsePairingsCoercesStringScores(t *testing.T) {
	raw := `[{"fromUid": "u1", "toProjectId": "p1", "score": "0.75", "reason": "string score"}]`

	pairings, err := ParsePairings(raw, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 1 || pairings[0].Score != 0.75 {
		t.Fatalf("expected coerced score 0.75, got %+v", pairings)
	}
}

func TestParsePairingsNotAList(t *testing.T) {
	for _, raw := range []string{
		`{"fromUid": "u1"}`,
		"the model refused to answer",
		"",
	} {
		_, err := ParsePairings(raw, zap.NewNop())

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError for %q, got %v", raw, err)
		}
		if parseErr.Raw != raw {
			t.Fatalf("expected raw output to be preserved, got %q", parseErr.Raw)
		}
	}
}
