// Package quizfile reads and writes quiz documents: a generated question
// set with its time limit, shareable as a JSON file.
package quizfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cuongduong73/ankiquiz/internal/question"
)

// Version is written into every exported document.
const Version = "1.0"

// Document is the exported form of a quiz.
type Document struct {
	Name     string   `json:"name"`
	Quiz     Body     `json:"quiz"`
	Metadata Metadata `json:"metadata"`
}

// Body holds the questions and the time limit in seconds.
type Body struct {
	Questions   question.List `json:"questions"`
	Duration    int           `json:"duration"`
	TotalPoints float64       `json:"totalPoints,omitempty"`
}

// Metadata describes when and how the document was produced.
type Metadata struct {
	ExportedAt    time.Time `json:"exportedAt"`
	ExportedDate  string    `json:"exportedDate,omitempty"`
	Version       string    `json:"version"`
	QuestionCount int       `json:"questionCount"`
}

// New builds a document from a question set.
func New(name string, qs []question.Question, duration time.Duration, now time.Time) *Document {
	var total float64
	for _, q := range qs {
		total += q.MaxPoints()
	}
	return &Document{
		Name: name,
		Quiz: Body{
			Questions:   question.List(qs),
			Duration:    int(duration / time.Second),
			TotalPoints: total,
		},
		Metadata: Metadata{
			ExportedAt:    now.UTC(),
			ExportedDate:  now.Local().Format("15:04:05 2/1/2006"),
			Version:       Version,
			QuestionCount: len(qs),
		},
	}
}

// DurationValue returns the time limit as a time.Duration.
func (d *Document) DurationValue() time.Duration {
	return time.Duration(d.Quiz.Duration) * time.Second
}

// Write encodes d as indented JSON.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode quiz document: %w", err)
	}
	return nil
}

// Save writes d into dir under Filename and returns the path written.
func (d *Document) Save(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(d.Name, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create quiz document: %w", err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close quiz document: %w", err)
	}
	return path, nil
}

// Read validates and decodes a quiz document. Nothing is returned unless
// the whole document is valid.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read quiz document: %w", err)
	}
	return Decode(data)
}

// Decode validates and decodes data.
func Decode(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return &doc, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases name, strips diacritics and joins the remaining
// alphanumeric runs with dashes.
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		s = strings.ToLower(name)
	}
	s = strings.ReplaceAll(s, "đ", "d")
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "quiz"
	}
	return s
}

// Filename returns the file name an export of name gets on day now.
func Filename(name string, now time.Time) string {
	return Slug(name) + "-" + now.UTC().Format("2006-01-02") + ".json"
}
