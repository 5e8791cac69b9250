package store

import (
	"context"
	"time"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// AttemptID and Purpose narrow LLM request events.
	AttemptID string
	Purpose   string
}

// DatasetStats summarizes the saved datasets.
type DatasetStats struct {
	Datasets int
	Cards    int
	ByType   map[dataset.Type]int
}

// DatasetRepo persists datasets.
type DatasetRepo interface {
	// Save inserts d or replaces the dataset with the same ID.
	Save(ctx context.Context, d *dataset.Dataset) error

	// List returns all datasets, oldest first.
	List(ctx context.Context) ([]dataset.Dataset, error)

	// Get returns the dataset with id, or nil if none exists.
	Get(ctx context.Context, id string) (*dataset.Dataset, error)

	// Delete removes the dataset with id and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Clear removes every dataset and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Stats summarizes the saved datasets.
	Stats(ctx context.Context) (DatasetStats, error)
}

// AttemptOutcome is the stored verdict for one question of an attempt.
type AttemptOutcome struct {
	Index     int     `json:"index"`
	Prompt    string  `json:"prompt"`
	Answer    string  `json:"answer"`
	Solution  string  `json:"solution"`
	Correct   bool    `json:"correct"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"maxPoints"`
}

// Attempt is a submitted quiz attempt.
type Attempt struct {
	ID             string
	Sequence       int64
	Name           string
	StartedAt      time.Time
	SubmittedAt    time.Time
	Duration       time.Duration
	TimeSpent      time.Duration
	TotalScore     float64
	MaxScore       float64
	CorrectCount   int
	IncorrectCount int
	TotalQuestions int
	// Questions is the question list in quiz document encoding.
	Questions []byte
	Outcomes  []AttemptOutcome
}

// AttemptRepo records submitted quiz attempts.
type AttemptRepo interface {
	// Save records an attempt. Saving the same attempt ID twice is a no-op.
	Save(ctx context.Context, a *Attempt) error

	// List returns attempts, newest first.
	List(ctx context.Context, opts QueryOpts) ([]Attempt, error)

	// Get returns the attempt with id, or nil if none exists.
	Get(ctx context.Context, id string) (*Attempt, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	// AttemptID is the quiz attempt the request was made for, if any.
	AttemptID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMRequest returns the event with id, or nil if none exists.
	GetLLMRequest(ctx context.Context, id int64) (*LLMRequestEvent, error)

	// LLMUsage aggregates events by purpose and model.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}

// LLMUsage is the token and latency total for one purpose and model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}
