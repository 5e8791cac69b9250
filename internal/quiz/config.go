package quiz

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/question"
)

// TotalPoints is the score every quiz is marked out of.
const TotalPoints = 10.0

// PointsTolerance absorbs rounding when splitting TotalPoints across types.
const PointsTolerance = 0.01

var (
	ErrNoDatasets      = errors.New("select at least one dataset")
	ErrPointsTotal     = errors.New("question points must add up to 10")
	ErrNoQuestionTypes = errors.New("choose at least one question type")
	ErrNoQuestions     = errors.New("no questions could be generated from the selected datasets")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrTypeNotSelected = errors.New("question type has no selected dataset")
)

// ConfigError reports a quiz configuration that cannot be used. Err is one
// of the Err* sentinels above.
type ConfigError struct {
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TypeAllocation asks for Count questions of Type sharing TotalPoints.
type TypeAllocation struct {
	Type        dataset.Type
	Count       int
	TotalPoints float64
}

// PerQuestion returns the points each generated question is worth.
func (a TypeAllocation) PerQuestion() float64 {
	if a.Count <= 0 {
		return 0
	}
	return a.TotalPoints / float64(a.Count)
}

// ValidateConfig checks a quiz configuration before anything is generated.
func ValidateConfig(selectedIDs []string, allocs []TypeAllocation, durationMinutes int) error {
	if len(selectedIDs) == 0 {
		return &ConfigError{Err: ErrNoDatasets}
	}

	var sum float64
	for _, a := range allocs {
		sum += a.TotalPoints
	}
	if math.Abs(sum-TotalPoints) > PointsTolerance {
		return &ConfigError{Err: ErrPointsTotal, Detail: fmt.Sprintf("got %.2f", sum)}
	}

	if len(TypeConfigs(allocs)) == 0 {
		return &ConfigError{Err: ErrNoQuestionTypes}
	}

	if durationMinutes <= 0 {
		return &ConfigError{Err: ErrInvalidDuration, Detail: fmt.Sprintf("got %d minutes", durationMinutes)}
	}
	return nil
}

// checkTypesSelected rejects allocations that ask for questions of a type
// none of the selected datasets has, since their points could never be
// earned. Unknown types are left to the question factory.
func checkTypesSelected(selected []dataset.Dataset, allocs []TypeAllocation) error {
	for _, a := range allocs {
		if a.Count <= 0 || !slices.Contains(dataset.Types, a.Type) {
			continue
		}
		if !slices.ContainsFunc(selected, func(d dataset.Dataset) bool { return d.Type == a.Type }) {
			return &ConfigError{Err: ErrTypeNotSelected, Detail: string(a.Type)}
		}
	}
	return nil
}

// EvenAllocations asks for perType questions of every type present in sets
// and splits TotalPoints evenly between those types.
func EvenAllocations(sets []dataset.Dataset, perType int) []TypeAllocation {
	var types []dataset.Type
	for _, d := range sets {
		if !slices.Contains(types, d.Type) {
			types = append(types, d.Type)
		}
	}
	if len(types) == 0 {
		return nil
	}
	share := TotalPoints / float64(len(types))
	allocs := make([]TypeAllocation, len(types))
	for i, t := range types {
		allocs[i] = TypeAllocation{Type: t, Count: perType, TotalPoints: share}
	}
	return allocs
}

// TypeConfigs converts allocations to per-question generator settings.
// Allocations with no questions are dropped.
func TypeConfigs(allocs []TypeAllocation) []question.TypeConfig {
	var out []question.TypeConfig
	for _, a := range allocs {
		if a.Count <= 0 {
			continue
		}
		out = append(out, question.TypeConfig{Type: a.Type, Count: a.Count, Points: a.PerQuestion()})
	}
	return out
}

// ParseAllocation reads the "type=count:points" form used on the command
// line, for example "mc=4:4" or "Short Answer=2:2".
func ParseAllocation(s string) (TypeAllocation, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok {
		return TypeAllocation{}, fmt.Errorf("allocation %q: want type=count:points", s)
	}
	t, err := dataset.ParseType(name)
	if err != nil {
		return TypeAllocation{}, fmt.Errorf("allocation %q: %w", s, err)
	}
	countStr, pointsStr, ok := strings.Cut(rest, ":")
	if !ok {
		return TypeAllocation{}, fmt.Errorf("allocation %q: want type=count:points", s)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil || count < 0 {
		return TypeAllocation{}, fmt.Errorf("allocation %q: invalid count", s)
	}
	points, err := strconv.ParseFloat(strings.TrimSpace(pointsStr), 64)
	if err != nil || points < 0 {
		return TypeAllocation{}, fmt.Errorf("allocation %q: invalid points", s)
	}
	return TypeAllocation{Type: t, Count: count, TotalPoints: points}, nil
}
