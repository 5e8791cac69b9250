package anki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

// fakeAnki answers AnkiConnect actions from a table of results.
func fakeAnki(t *testing.T, results map[string]any) (*httptest.Server, func() []request) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()

		res, ok := results[req.Action]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"result": nil, "error": "unsupported action"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": res, "error": nil})
	}))
	t.Cleanup(srv.Close)
	return srv, func() []request {
		mu.Lock()
		defer mu.Unlock()
		return append([]request(nil), seen...)
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name        string
		tags        []string
		onlyStudied bool
		want        string
	}{
		{"plain", nil, false, `deck:"Geo" note:"Basic"`},
		{"one tag", []string{"europe"}, false, `deck:"Geo" note:"Basic" (tag:"europe")`},
		{"tags and studied", []string{"europe", "asia"}, true, `deck:"Geo" note:"Basic" (tag:"europe" OR tag:"asia") -is:new`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery("Geo", "Basic", tt.tags, tt.onlyStudied))
		})
	}
}

func TestClientActions(t *testing.T) {
	srv, seen := fakeAnki(t, map[string]any{
		"version":         6,
		"deckNames":       []string{"Default", "Geo"},
		"modelNames":      []string{"Basic"},
		"modelFieldNames": []string{"Front", "Back"},
		"getTags":         []string{"europe"},
		"findNotes":       []int64{11, 12},
		"guiBrowse":       []int64{11},
	})
	c := NewClient(srv.URL)
	ctx := context.Background()

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.True(t, c.Ping(ctx))

	decks, err := c.DeckNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Default", "Geo"}, decks)

	fields, err := c.ModelFieldNames(ctx, "Basic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Front", "Back"}, fields)

	ids, err := c.FindNotes(ctx, `deck:"Geo"`)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12}, ids)

	require.NoError(t, c.OpenNote(ctx, 11))

	reqs := seen()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "guiBrowse", last.Action)
	assert.Equal(t, APIVersion, last.Version)
	assert.Equal(t, map[string]any{"query": "nid:11"}, last.Params)
}

func TestClientAPIError(t *testing.T) {
	srv, _ := fakeAnki(t, nil)
	c := NewClient(srv.URL)

	_, err := c.DeckNames(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "deckNames", apiErr.Action)
	assert.Equal(t, "unsupported action", apiErr.Message)
}

func TestClientRetriesConnectionFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result": 6, "error": null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))
	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(1, time.Millisecond))
	assert.False(t, c.Ping(context.Background()))
}

func TestImport(t *testing.T) {
	srv, seen := fakeAnki(t, map[string]any{
		"findNotes": []int64{1, 2},
		"notesInfo": []map[string]any{
			{
				"noteId":    1,
				"modelName": "Quiz",
				"fields": map[string]any{
					"Question": map[string]any{"value": "Capital of France?", "order": 0},
					"Answer":   map[string]any{"value": "b", "order": 1},
					"Choice 1": map[string]any{"value": "Berlin", "order": 2},
					"Choice 2": map[string]any{"value": "Paris", "order": 3},
				},
			},
			{
				"noteId":    2,
				"modelName": "Quiz",
				"fields": map[string]any{
					"Question": map[string]any{"value": "No choices", "order": 0},
					"Answer":   map[string]any{"value": "a", "order": 1},
				},
			},
		},
	})
	c := NewClient(srv.URL)

	d, err := Import(context.Background(), c, ImportRequest{
		Name:  "Capitals",
		Type:  dataset.TypeMultipleChoice,
		Query: Query{Deck: "Geo", NoteType: "Quiz", OnlyStudied: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Capitals", d.Name)
	assert.NotEmpty(t, d.ID)
	require.Len(t, d.Cards, 1)
	assert.Equal(t, int64(1), d.Cards[0].ID)
	assert.Equal(t, []string{"Berlin", "Paris"}, d.Cards[0].Choices)
	assert.Nil(t, d.Metadata)

	assert.Equal(t, map[string]any{"query": `deck:"Geo" note:"Quiz" -is:new`}, seen()[0].Params)
}

func TestImportNoMatchingNotes(t *testing.T) {
	srv, _ := fakeAnki(t, map[string]any{"findNotes": []int64{}})
	c := NewClient(srv.URL)

	_, err := Import(context.Background(), c, ImportRequest{
		Name:  "Empty",
		Type:  dataset.TypeShortAnswer,
		Query: Query{Deck: "Geo", NoteType: "Basic"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cards")
}
