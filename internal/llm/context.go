package llm

import "context"

// PurposeExplain labels requests that explain a missed question.
const PurposeExplain = "explain"

// labels tag a request for the event log.
type labels struct {
	purpose string
	attempt string
}

type labelsKey struct{}

func labelsFrom(ctx context.Context) labels {
	l, _ := ctx.Value(labelsKey{}).(labels)
	return l
}

// WithPurpose records why requests made with ctx are sent.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	l := labelsFrom(ctx)
	l.purpose = purpose
	return context.WithValue(ctx, labelsKey{}, l)
}

// WithAttempt ties requests made with ctx to a quiz attempt.
func WithAttempt(ctx context.Context, attemptID string) context.Context {
	l := labelsFrom(ctx)
	l.attempt = attemptID
	return context.WithValue(ctx, labelsKey{}, l)
}

// PurposeFrom returns the purpose set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := labelsFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// AttemptFrom returns the attempt set by WithAttempt.
func AttemptFrom(ctx context.Context) string {
	return labelsFrom(ctx).attempt
}
