package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

// datasetRepo implements DatasetRepo with cards stored as a JSON column.
type datasetRepo struct {
	drv *entsql.Driver
}

var datasetColumns = []string{
	"id", "name", "type", "deck", "note_type", "tags", "metadata", "cards", "card_count", "created_at",
}

func (r *datasetRepo) Save(ctx context.Context, d *dataset.Dataset) error {
	tags, err := json.Marshal(orEmpty(d.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	cards, err := json.Marshal(d.Cards)
	if err != nil {
		return fmt.Errorf("marshal cards: %w", err)
	}
	var meta any
	if d.Metadata != nil {
		b, err := json.Marshal(d.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(b)
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableDatasets).
		Columns(datasetColumns...).
		Values(d.ID, d.Name, string(d.Type), d.Deck, d.NoteType, string(tags), meta,
			string(cards), len(d.Cards), created.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save dataset %q: %w", d.Name, err)
	}
	return nil
}

func (r *datasetRepo) List(ctx context.Context) ([]dataset.Dataset, error) {
	b := entsql.Dialect(r.drv.Dialect())
	query, args := b.Select(datasetColumns...).
		From(b.Table(tableDatasets)).
		OrderBy("created_at", "name").
		Query()
	return r.query(ctx, query, args)
}

func (r *datasetRepo) Get(ctx context.Context, id string) (*dataset.Dataset, error) {
	b := entsql.Dialect(r.drv.Dialect())
	query, args := b.Select(datasetColumns...).
		From(b.Table(tableDatasets)).
		Where(entsql.EQ("id", id)).
		Query()
	sets, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return &sets[0], nil
}

func (r *datasetRepo) Delete(ctx context.Context, id string) (bool, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Delete(tableDatasets).
		Where(entsql.EQ("id", id)).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return false, fmt.Errorf("delete dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete dataset: %w", err)
	}
	return n > 0, nil
}

func (r *datasetRepo) Clear(ctx context.Context) (int, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).Delete(tableDatasets).Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("clear datasets: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear datasets: %w", err)
	}
	return int(n), nil
}

func (r *datasetRepo) Stats(ctx context.Context) (DatasetStats, error) {
	b := entsql.Dialect(r.drv.Dialect())
	query, args := b.Select("type", "card_count").From(b.Table(tableDatasets)).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return DatasetStats{}, fmt.Errorf("query dataset stats: %w", err)
	}
	defer rows.Close()

	stats := DatasetStats{ByType: make(map[dataset.Type]int)}
	for rows.Next() {
		var (
			typ   string
			cards int
		)
		if err := rows.Scan(&typ, &cards); err != nil {
			return DatasetStats{}, fmt.Errorf("scan dataset stats: %w", err)
		}
		stats.Datasets++
		stats.Cards += cards
		stats.ByType[dataset.Type(typ)]++
	}
	return stats, rows.Err()
}

func (r *datasetRepo) query(ctx context.Context, query string, args []any) ([]dataset.Dataset, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []dataset.Dataset
	for rows.Next() {
		var (
			d                dataset.Dataset
			typ, tags, cards string
			meta             sql.NullString
			cardCount        int
			createdAt        int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &typ, &d.Deck, &d.NoteType, &tags, &meta,
			&cards, &cardCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		d.Type = dataset.Type(typ)
		d.CreatedAt = time.UnixMilli(createdAt)
		if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
			return nil, fmt.Errorf("dataset %s: unmarshal tags: %w", d.ID, err)
		}
		if len(d.Tags) == 0 {
			d.Tags = nil
		}
		if err := json.Unmarshal([]byte(cards), &d.Cards); err != nil {
			return nil, fmt.Errorf("dataset %s: unmarshal cards: %w", d.ID, err)
		}
		if meta.Valid {
			d.Metadata = &dataset.Metadata{}
			if err := json.Unmarshal([]byte(meta.String), d.Metadata); err != nil {
				return nil, fmt.Errorf("dataset %s: unmarshal metadata: %w", d.ID, err)
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
