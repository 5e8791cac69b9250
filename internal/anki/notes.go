package anki

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

// Field is one note field as AnkiConnect reports it.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// NoteInfo is an entry of a notesInfo result.
type NoteInfo struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Tags      []string         `json:"tags"`
	Fields    map[string]Field `json:"fields"`
}

// Note flattens the field map.
func (n NoteInfo) Note() dataset.Note {
	fields := make(map[string]string, len(n.Fields))
	for name, f := range n.Fields {
		fields[name] = f.Value
	}
	return dataset.Note{ID: n.NoteID, Fields: fields}
}

// Query selects the notes of a dataset.
type Query struct {
	Deck        string
	NoteType    string
	Tags        []string
	OnlyStudied bool
}

// String renders q in Anki search syntax. Multiple tags are alternatives.
func (q Query) String() string {
	return BuildQuery(q.Deck, q.NoteType, q.Tags, q.OnlyStudied)
}

// BuildQuery builds an Anki search for a deck and note type, optionally
// narrowed to any of tags and to cards that have been studied.
func BuildQuery(deck, noteType string, tags []string, onlyStudied bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "deck:%q note:%q", deck, noteType)
	if len(tags) > 0 {
		parts := make([]string, len(tags))
		for i, t := range tags {
			parts[i] = fmt.Sprintf("tag:%q", t)
		}
		b.WriteString(" (" + strings.Join(parts, " OR ") + ")")
	}
	if onlyStudied {
		b.WriteString(" -is:new")
	}
	return b.String()
}

// ImportRequest describes a dataset to build from Anki notes.
type ImportRequest struct {
	Name     string
	Type     dataset.Type
	Query    Query
	Mapping  dataset.FieldMapping
	Metadata *dataset.Metadata
}

// Import fetches the notes matching req.Query and converts them into a
// validated dataset.
func Import(ctx context.Context, c *Client, req ImportRequest) (*dataset.Dataset, error) {
	ids, err := c.FindNotes(ctx, req.Query.String())
	if err != nil {
		return nil, err
	}
	infos, err := c.NotesInfo(ctx, ids)
	if err != nil {
		return nil, err
	}
	notes := make([]dataset.Note, len(infos))
	for i, n := range infos {
		notes[i] = n.Note()
	}

	cards, err := dataset.ParseNotes(req.Type, notes, req.Mapping)
	if err != nil {
		return nil, err
	}

	meta := req.Metadata
	if req.Type == dataset.TypeDefinition && !meta.HasTemplates() {
		meta = dataset.DefaultMetadata()
	}
	if req.Type != dataset.TypeDefinition {
		meta = nil
	}

	d := &dataset.Dataset{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Type:      req.Type,
		Deck:      req.Query.Deck,
		NoteType:  req.Query.NoteType,
		Tags:      req.Query.Tags,
		Metadata:  meta,
		Cards:     cards,
		CreatedAt: time.Now(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
