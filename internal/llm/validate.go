package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas caches compiled schemas by Schema.Name.
var schemas sync.Map

// validateResponse checks raw against schema and reports a mismatch as
// KindInvalidResponse. A nil schema accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(err error) error {
		return &Error{Kind: KindInvalidResponse, Content: raw, Err: err}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid(fmt.Errorf("not JSON: %w", err))
	}
	sch, err := compileSchema(schema)
	if err != nil {
		return invalid(fmt.Errorf("schema %q: %w", schema.Name, err))
	}
	if err := sch.Validate(doc); err != nil {
		return invalid(err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := schemas.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// Round-trip through JSON so typed Go slices become []any.
	data, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	url := "mem://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	schemas.Store(schema.Name, s)
	return s, nil
}
