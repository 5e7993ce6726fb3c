package scoring

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema describes a complete /api/predict result. A body that does
// not satisfy it is treated as a failure, never as a partial result.
const responseSchema = `{
	"type": "object",
	"required": ["credit_score", "rating", "default_probability_percentage", "loan_to_income_ratio"],
	"properties": {
		"credit_score": {"type": "number"},
		"rating": {"type": "string"},
		"default_probability_percentage": {"type": ["string", "number"]},
		"loan_to_income_ratio": {"type": "number"},
		"default_probability": {"type": ["number", "null"]}
	}
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchema)

func validateResponse(body []byte) error {
	result, err := gojsonschema.Validate(responseSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("response schema: %s", strings.Join(msgs, "; "))
}
