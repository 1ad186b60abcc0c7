package service

import (
	"encoding/json"

	"github.com/reshetovitsme/contentguard/internal/modules/moderation/domain"
	"github.com/reshetovitsme/contentguard/internal/shared/ai"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/samber/oops"
)

// ExtractJSON returns the first balanced {...} span of the model output after reasoning is stripped.
// Braces inside JSON string literals do not count.
func ExtractJSON(raw string) (string, error) {
	content := ai.StripReasoning(raw)

	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if start < 0 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}

	return "", errors.Parse(oops.With("length", len(raw)).Errorf("no JSON object in model output"))
}

// ParseResult decodes the model output into an AnalysisResult
func ParseResult(raw string) (*domain.AnalysisResult, error) {
	span, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(span), &result); err != nil {
		return nil, errors.Parse(oops.With("context", "decoding analysis JSON").Wrap(err))
	}

	result.Normalize()
	return &result, nil
}
