package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape: either a single dataset at the top level
// or a list under "datasets".
type document struct {
	Datasets []Dataset `json:"datasets,omitempty" yaml:"datasets,omitempty"`
	Dataset  `yaml:",inline"`
}

// LoadFile reads, parses, and validates the datasets in a YAML or JSON file.
// Datasets without an ID get a fresh one.
func LoadFile(path string) ([]Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data according to ext (".json" or anything else for YAML).
func Parse(data []byte, ext string) ([]Dataset, error) {
	var doc document
	var err error
	if strings.EqualFold(ext, ".json") {
		err = parseJSON(data, &doc)
	} else {
		err = parseYAML(data, &doc)
	}
	if err != nil {
		return nil, err
	}

	sets := doc.Datasets
	if doc.Name != "" || len(doc.Cards) > 0 {
		sets = append([]Dataset{doc.Dataset}, sets...)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no datasets found")
	}

	now := time.Now()
	for i := range sets {
		d := &sets[i]
		if t, err := ParseType(string(d.Type)); err == nil {
			d.Type = t
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
	}
	return sets, nil
}

func parseJSON(data []byte, doc *document) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(doc); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func parseYAML(data []byte, doc *document) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse yaml: multiple YAML documents are not supported")
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// WriteJSON writes datasets in the list form accepted by Parse.
func WriteJSON(w io.Writer, sets []Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Datasets []Dataset `json:"datasets"`
	}{sets}); err != nil {
		return fmt.Errorf("encode datasets: %w", err)
	}
	return nil
}
