package recognize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

var candidateKeySynonyms = map[string]string{
	"owner":           "ownerName",
	"owner_name":      "ownerName",
	"building":        "buildingName",
	"building_name":   "buildingName",
	"address":         "location",
	"territory":       "location",
	"date":            "demolitionDate",
	"demolition_date": "demolitionDate",
	"text":            "extractedText",
	"extracted_text":  "extractedText",
}

var candidateOptionalKeys = map[string]struct{}{
	"ownerName": {},
	"location":  {},
}

var candidateKnownKeys = map[string]struct{}{
	"ownerName":      {},
	"buildingName":   {},
	"location":       {},
	"demolitionDate": {},
	"extractedText":  {},
}

// SanitizeCandidateJSON makes a lenient pass over near-miss model output:
// renames known key synonyms, drops null or empty optional fields, and
// removes unknown keys so the strict additionalProperties=false schema can
// still accept it. Returns the cleaned JSON and the adjustments made.
func SanitizeCandidateJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	adjusted := make([]string, 0, 4)

	for from, to := range candidateKeySynonyms {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			adjusted = append(adjusted, from+"->"+to)
		}
	}

	for k := range m {
		if _, known := candidateKnownKeys[k]; !known {
			delete(m, k)
			adjusted = append(adjusted, k+"(unknown)")
		}
	}

	for k := range candidateOptionalKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			adjusted = append(adjusted, k+"(null)")
		case string:
			if strings.TrimSpace(t) == "" {
				delete(m, k)
				adjusted = append(adjusted, k+"(empty)")
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, adjusted, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(adjusted) > 0 {
		logger.Debug("candidate json sanitized", "adjustments", adjusted)
	}
	return out, adjusted, nil
}
