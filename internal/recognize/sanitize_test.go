package recognize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCandidateJSON(t *testing.T) {
	raw := []byte(`{
		"owner_name": "Sarah Parker",
		"buildingName": "Storage Silo",
		"location": "",
		"demolition_date": "2024-03-15",
		"extractedText": "Building: Storage Silo",
		"confidence": 0.9
	}`)

	cleaned, adjusted, err := SanitizeCandidateJSON(raw, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, adjusted)

	var m map[string]any
	require.NoError(t, json.Unmarshal(cleaned, &m))
	assert.Equal(t, "Sarah Parker", m["ownerName"])
	assert.Equal(t, "2024-03-15", m["demolitionDate"])
	assert.NotContains(t, m, "location")
	assert.NotContains(t, m, "confidence")
	assert.NotContains(t, m, "owner_name")

	require.NoError(t, ValidateJSONAgainstSchema(BuildCandidateJSONSchema(), cleaned))
}

func TestSanitizeCandidateJSONDropsNullOptionals(t *testing.T) {
	raw := []byte(`{"buildingName":"Silo","demolitionDate":"2024-03-15","extractedText":"x","ownerName":null}`)
	cleaned, _, err := SanitizeCandidateJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(cleaned, &m))
	assert.NotContains(t, m, "ownerName")
}

func TestValidateCandidateSchemaRejectsMissingRequired(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildCandidateJSONSchema(), []byte(`{"buildingName":"Silo"}`))
	assert.Error(t, err)
}
