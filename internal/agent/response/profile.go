package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"shoken-assist/backend/internal/model"

	"github.com/xeipuuv/gojsonschema"
)

// styleProfileSchema mirrors the JSON shape requested by prompt.AnalysisTask
const styleProfileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["sentence_structure", "overall_tone"],
  "properties": {
    "style_name":         {"type": "string"},
    "summary":            {"type": "string"},
    "sentence_structure": {"type": "string", "minLength": 1},
    "overall_tone":       {"type": "string", "minLength": 1},
    "dos":                {"type": "array", "items": {"type": "string"}},
    "donts":              {"type": "array", "items": {"type": "string"}},
    "phrase_bank":        {"type": "array", "items": {"type": "string"}},
    "closing_patterns":   {"type": "array", "items": {"type": "string"}},
    "parameters":         {"type": "array", "items": {"type": "string"}}
  }
}`

// legacyKeys maps field names used by profiles saved before the schema was
// renamed onto the current names.
var legacyKeys = map[string]string{
	"B_sentence_structure": "sentence_structure",
	"D_overall_tone":       "overall_tone",
}

var listKeys = []string{"dos", "donts", "phrase_bank", "closing_patterns", "parameters"}

var (
	compiledSchema *gojsonschema.Schema
	schemaErr      error
	schemaOnce     sync.Once
)

func profileSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(styleProfileSchema))
	})
	return compiledSchema, schemaErr
}

// SchemaError lists the fields of a model response that failed schema validation
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return "style profile schema violation: " + strings.Join(e.Fields, "; ")
}

// ErrNoJSONObject is the cause of a MalformedResponseError when no object could be recovered
var ErrNoJSONObject = errors.New("no JSON object in model output")

// DecodeStyleProfile turns raw analysis output into a validated StyleProfile.
// Missing list fields default to empty; string values given for list fields
// are split on newlines. Any failure is a *model.MalformedResponseError.
func DecodeStyleProfile(text string) (*model.StyleProfile, error) {
	obj := ParseJSONLenient(text)
	if obj == nil {
		return nil, malformed(ErrNoJSONObject)
	}
	return DecodeStyleProfileObject(obj)
}

// DecodeStyleProfileObject validates and decodes an already-parsed object.
func DecodeStyleProfileObject(obj map[string]any) (*model.StyleProfile, error) {
	normalizeObject(obj)

	schema, err := profileSchema()
	if err != nil {
		return nil, malformed(fmt.Errorf("load style profile schema: %w", err))
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return nil, malformed(fmt.Errorf("validate style profile: %w", err))
	}
	if !result.Valid() {
		schemaErr := &SchemaError{}
		for _, re := range result.Errors() {
			schemaErr.Fields = append(schemaErr.Fields, re.Field()+": "+re.Description())
		}
		return nil, malformed(schemaErr)
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, malformed(err)
	}
	var profile model.StyleProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, malformed(err)
	}

	profile = trimProfile(profile.WithDefaults())
	if !profile.Valid() {
		return nil, malformed(errors.New("sentence_structure or overall_tone is blank"))
	}
	return &profile, nil
}

func normalizeObject(obj map[string]any) {
	for legacy, current := range legacyKeys {
		if v, ok := obj[legacy]; ok {
			if _, exists := obj[current]; !exists {
				obj[current] = v
			}
			delete(obj, legacy)
		}
	}
	for _, key := range listKeys {
		switch v := obj[key].(type) {
		case nil:
			delete(obj, key)
		case string:
			obj[key] = splitList(v)
		}
	}
	// updated_at is stamped locally, never taken from the model
	delete(obj, "updated_at")
}

func splitList(s string) []any {
	items := []any{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

func trimProfile(p model.StyleProfile) model.StyleProfile {
	p.StyleName = strings.TrimSpace(p.StyleName)
	p.Summary = strings.TrimSpace(p.Summary)
	p.SentenceStructure = strings.TrimSpace(p.SentenceStructure)
	p.OverallTone = strings.TrimSpace(p.OverallTone)
	return p
}

func malformed(cause error) error {
	return &model.MalformedResponseError{Operation: model.OperationAnalyze, Cause: cause}
}
