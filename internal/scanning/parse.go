package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseHintJSON parses the JSON object returned by a model
func parseHintJSON(text string) (*Hint, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	// Models sometimes answer with numbers or null instead of strings
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	return &Hint{
		Date:  field(raw, "date"),
		Total: field(raw, "total"),
	}, nil
}

func field(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return ""
	}
}
