package quizfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// ErrInvalidDocument is wrapped by every validation failure.
var ErrInvalidDocument = errors.New("invalid quiz document")

// ValidationError describes why a document was rejected. Question is the
// 1-based question number, or 0 for document-level problems.
type ValidationError struct {
	Question int
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("%s: question %d: %s", ErrInvalidDocument, e.Question, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

// SupportedMajor is the newest document major version this build reads.
const SupportedMajor = "v1"

// Validate checks a raw document. The first problem found is reported.
func Validate(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}

	quiz, ok := doc["quiz"].(map[string]any)
	if !ok {
		return &ValidationError{Reason: `missing "quiz"`}
	}
	questions, ok := quiz["questions"].([]any)
	if !ok {
		return &ValidationError{Reason: `missing or malformed "questions"`}
	}
	if len(questions) == 0 {
		return &ValidationError{Reason: "the quiz has no questions"}
	}
	if d, ok := quiz["duration"].(float64); !ok || d <= 0 {
		return &ValidationError{Reason: `missing or invalid "duration"`}
	}
	for i, raw := range questions {
		q, ok := raw.(map[string]any)
		if !ok {
			return &ValidationError{Question: i + 1, Reason: "not an object"}
		}
		if t, ok := q["type"].(string); !ok || t == "" {
			return &ValidationError{Question: i + 1, Reason: `missing "type"`}
		}
		if p, ok := q["points"].(float64); !ok || p < 0 {
			return &ValidationError{Question: i + 1, Reason: `missing or invalid "points"`}
		}
	}

	if meta, ok := doc["metadata"].(map[string]any); ok {
		if v, ok := meta["version"].(string); ok && v != "" {
			if err := checkVersion(v); err != nil {
				return err
			}
		}
	}

	compiled, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile quiz document schema: %w", err)
	}
	if err := compiled.Validate(any(doc)); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("schema validation failed: %v", err)}
	}
	return nil
}

func checkVersion(v string) error {
	sv := "v" + v
	if !semver.IsValid(sv) {
		return &ValidationError{Reason: fmt.Sprintf("invalid version %q", v)}
	}
	if semver.Compare(semver.Major(sv), SupportedMajor) > 0 {
		return &ValidationError{Reason: fmt.Sprintf("unsupported version %q", v)}
	}
	return nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go literals.
		defBytes, err := json.Marshal(schemaDefinition())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://quiz-document.json"
		if err := c.AddResource(url, defParsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
	})
	return schemaCompiled, schemaErr
}

func schemaDefinition() map[string]any {
	str := map[string]any{"type": "string"}
	strArray := map[string]any{"type": "array", "items": str}
	statement := map[string]any{
		"type":     "object",
		"required": []any{"question", "answer"},
		"properties": map[string]any{
			"question": str,
			"answer":   map[string]any{"type": []any{"string", "integer", "boolean"}},
			"id":       map[string]any{"type": "integer"},
		},
	}
	card := map[string]any{
		"type":     "object",
		"required": []any{"question", "answer"},
		"properties": map[string]any{
			"question": str,
			"answer":   str,
			"choices":  strArray,
		},
	}
	q := map[string]any{
		"type":     "object",
		"required": []any{"type", "points"},
		"properties": map[string]any{
			"type":         map[string]any{"enum": []any{"True/False", "Multiple Choices", "Short Answer", "Definition"}},
			"points":       map[string]any{"type": "number", "minimum": 0},
			"question":     str,
			"choices":      strArray,
			"statements":   map[string]any{"type": "array", "items": statement},
			"cards":        map[string]any{"type": "array", "items": card},
			"answer":       map[string]any{"type": []any{"string", "integer"}},
			"questionType": map[string]any{"enum": []any{"forward", "reverse"}},
			"extra":        str,
		},
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"quiz"},
		"properties": map[string]any{
			"name": str,
			"quiz": map[string]any{
				"type":     "object",
				"required": []any{"questions", "duration"},
				"properties": map[string]any{
					"questions":   map[string]any{"type": "array", "minItems": 1, "items": q},
					"duration":    map[string]any{"type": "number", "exclusiveMinimum": 0},
					"totalPoints": map[string]any{"type": []any{"number", "null"}},
				},
			},
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"version":       str,
					"questionCount": map[string]any{"type": "integer"},
				},
			},
		},
	}
}
