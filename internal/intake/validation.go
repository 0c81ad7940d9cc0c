package intake

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"lead-intake/internal/common/errors"
	"lead-intake/internal/common/validation"
	"lead-intake/internal/models"
)

// RequiredFields in the order missing fields are reported.
var RequiredFields = []string{"name", "email", "businessName", "projectType", "goals"}

// Validator checks a raw request body for the required intake fields.
type Validator struct {
	schema *validation.Schema
}

func NewValidator() *Validator {
	return &Validator{schema: validation.MustCompile(validation.ObjectSchema)}
}

// Validate decodes body and returns the required fields exactly as sent.
// It fails with INVALID_JSON when body is not a UTF-8 JSON object and with
// VALIDATION_ERROR when a required field is absent or blank.
func (v *Validator) Validate(body []byte) (*models.IntakeFields, error) {
	if !utf8.Valid(body) {
		return nil, errors.NewInvalidJSONError(fmt.Errorf("body is not valid UTF-8"))
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}

	result, err := v.schema.Validate(doc)
	if err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidJSONError(fmt.Errorf("%s", strings.Join(result.GetErrorMessages(), "; ")))
	}

	input := doc.(map[string]interface{})
	if missing := validation.MissingFields(input, RequiredFields); len(missing) > 0 {
		return nil, errors.NewValidationError(missing)
	}

	field := func(key string) string {
		s, _ := validation.StringValue(input[key])
		return s
	}
	return &models.IntakeFields{
		Name:         field("name"),
		Email:        field("email"),
		BusinessName: field("businessName"),
		ProjectType:  field("projectType"),
		Goals:        field("goals"),
	}, nil
}
