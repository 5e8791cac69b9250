package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequence
}

var llmEventColumns = []string{
	"id", "sequence", "created_at", "provider", "model", "purpose", "attempt_id",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableLLMEvents).
		Columns(llmEventColumns[1:]...).
		Values(seqNum, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose, data.AttemptID,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := entsql.Dialect(r.drv.Dialect())
	sel := b.Select(llmEventColumns...).From(b.Table(tableLLMEvents))
	if p := opts.predicate("created_at"); p != nil {
		sel.Where(p)
	}
	if opts.AttemptID != "" {
		sel.Where(entsql.EQ("attempt_id", opts.AttemptID))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()
	return r.query(ctx, query, args)
}

func (r *eventRepo) GetLLMRequest(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	b := entsql.Dialect(r.drv.Dialect())
	query, args := b.Select(llmEventColumns...).
		From(b.Table(tableLLMEvents)).
		Where(entsql.EQ("id", id)).
		Query()
	out, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]LLMUsage, error) {
	b := entsql.Dialect(r.drv.Dialect())
	query, args := b.Select(
		"purpose", "model",
		entsql.Count("*"),
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Avg("latency_ms"),
	).
		From(b.Table(tableLLMEvents)).
		GroupBy("purpose", "model").
		OrderBy("purpose", "model").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u             LLMUsage
			calls, in, ot int64
			avg           float64
		)
		if err := rows.Scan(&u.Purpose, &u.Model, &calls, &in, &ot, &avg); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.Calls, u.InputTokens, u.OutputTokens = int(calls), int(in), int(ot)
		u.AvgLatencyMs = int64(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) query(ctx context.Context, query string, args []any) ([]LLMRequestEvent, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e  LLMRequestEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.Provider, &e.Model, &e.Purpose, &e.AttemptID,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan LLM request event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
