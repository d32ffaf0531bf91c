package matching

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Pairing is one validated model suggestion.
type Pairing struct {
	FromUID     string  `json:"fromUid"`
	ToProjectID string  `json:"toProjectId"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// ParseError reports a response whose overall structure could not be parsed.
// It carries the raw model output so it can be stored for offline inspection.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParsePairings parses the raw model output as a strict list of pairing
// objects. Entries with an empty seeker id, an empty project id or a missing
// or out-of-range score are dropped with a log line, not escalated. A
// response that is not a list at all yields a ParseError.
func ParsePairings(raw string, logger *zap.Logger) ([]Pairing, error) {
	cleaned := extractJSON(raw)

	var entries []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	pairings := make([]Pairing, 0, len(entries))
	for i, entry := range entries {
		fromUID := coerceString(entry["fromUid"])
		toProjectID := coerceString(entry["toProjectId"])
		scoreVal, hasScore := entry["score"]
		score := coerceFloat(scoreVal)

		switch {
		case fromUID == "" || toProjectID == "":
			logger.Debug("dropping pairing with missing ids", zap.Int("entry", i))
		case !hasScore || math.IsNaN(score):
			logger.Debug("dropping pairing without a score",
				zap.Int("entry", i),
				zap.String("from_uid", fromUID),
			)
		case score < 0 || score > 1:
			logger.Debug("dropping pairing with out-of-range score",
				zap.Int("entry", i),
				zap.Float64("score", score),
			)
		default:
			pairings = append(pairings, Pairing{
				FromUID:     fromUID,
				ToProjectID: toProjectID,
				Score:       score,
				Reason:      coerceString(entry["reason"]),
			})
		}
	}

	return pairings, nil
}

// extractJSON strips markdown fences and surrounding prose, keeping the
// outermost JSON array.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start != -1 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
