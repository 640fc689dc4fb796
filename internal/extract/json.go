package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// extractedFields is the model's answer, every value coerced to a string.
type extractedFields struct {
	BusinessName string
	OwnerName    string
	Rating       string
	OpeningHours string
	Phone        string
	Address      string
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimPrefix(text, "json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// parseFields decodes the model output. Values of any JSON type are accepted.
func parseFields(text string) (extractedFields, error) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(cleanJSON(text)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return extractedFields{}, eris.Wrap(err, "extract: decode model output")
	}

	return extractedFields{
		BusinessName: stringify(raw["business_name"]),
		OwnerName:    stringify(raw["owner_name"]),
		Rating:       stringify(raw["rating"]),
		OpeningHours: stringify(raw["opening_hours"]),
		Phone:        stringify(raw["phone"]),
		Address:      stringify(raw["address"]),
	}, nil
}

// stringify renders a decoded JSON value as display text. null becomes "".
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
