package llm

import "github.com/santhosh-tekuri/jsonschema/v5"

// analysisSchema is a permissive contract for the model's structured
// payload: every field is optional, but a field that is present must
// carry the expected type. Payloads that violate it are discarded and
// only the raw response is kept.
const analysisSchema = `{
	"type": "object",
	"properties": {
		"summary":         {"type": "string"},
		"key_points":      {"type": "array", "items": {"type": "string"}},
		"structured_data": {"type": "object"},
		"translation":     {"type": ["string", "object"]},
		"title":           {"type": "string"},
		"language":        {"type": "string"},
		"document_type":   {"type": "string"},
		"tables":          {"type": "array"}
	}
}`

var analysisValidator = jsonschema.MustCompileString("analysis.schema.json", analysisSchema)

func validatePayload(payload map[string]any) error {
	return analysisValidator.Validate(map[string]any(payload))
}
