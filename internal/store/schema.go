package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// Table names.
const (
	tableDatasets  = "datasets"
	tableAttempts  = "quiz_attempts"
	tableLLMEvents = "llm_request_events"
)

// Timestamps are stored as Unix milliseconds so both dialects scan them
// the same way.
func tableDDL(dialect string) []string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == dialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			deck TEXT NOT NULL DEFAULT '',
			note_type TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			metadata TEXT,
			cards TEXT NOT NULL,
			card_count INTEGER NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id TEXT PRIMARY KEY,
			sequence BIGINT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			started_at BIGINT NOT NULL,
			submitted_at BIGINT NOT NULL,
			duration_secs INTEGER NOT NULL,
			time_spent_secs INTEGER NOT NULL,
			total_score DOUBLE PRECISION NOT NULL,
			max_score DOUBLE PRECISION NOT NULL,
			correct_count INTEGER NOT NULL,
			incorrect_count INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			questions TEXT NOT NULL,
			outcomes TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS quiz_attempts_submitted_at ON quiz_attempts (submitted_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS llm_request_events (
			id %s,
			sequence BIGINT NOT NULL,
			created_at BIGINT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			attempt_id TEXT NOT NULL DEFAULT '',
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms BIGINT NOT NULL DEFAULT 0,
			success BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`, serial),
		`CREATE INDEX IF NOT EXISTS llm_request_events_attempt_id ON llm_request_events (attempt_id)`,
		`CREATE TABLE IF NOT EXISTS global_sequence (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val BIGINT NOT NULL DEFAULT 1
		)`,
		`INSERT INTO global_sequence (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`,
	}
}

// migrate creates missing tables and seeds the sequence counter. Columns
// are never altered in place.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range tableDDL(drv.Dialect()) {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
