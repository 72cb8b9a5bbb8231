package recognize

// BuildCandidateJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is passed to the multimodal model as an output constraint
// and also used locally to validate what comes back.
func BuildCandidateJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"ownerName":    map[string]any{"type": "string"},
			"buildingName": map[string]any{"type": "string", "minLength": 1},
			"location":     map[string]any{"type": "string"},
			"demolitionDate": map[string]any{
				"type":    "string",
				"pattern": `^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?$`,
			},
			"extractedText": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"buildingName", "demolitionDate", "extractedText"},
	}
}
