package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/ctxrun/pkg/log"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one persisted copilot execution: the serialized context plus the
// response essentials, enough to replay or hand off.
type Run struct {
	ID          string
	User        string
	Intent      string
	Model       string
	Provider    string
	CostUSD     float64
	Duration    time.Duration
	TotalTokens int
	ContextJSON string
	Result      string
	CreatedAt   time.Time
}

type Runs struct {
	db *sql.DB
}

func NewRuns(db *sql.DB) *Runs {
	return &Runs{db: db}
}

func (r *Runs) Save(ctx context.Context, run Run) error {
	query := `INSERT INTO runs (id, user, intent, model, provider, cost_usd, duration_ms, total_tokens, context_json, result, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.User, run.Intent, run.Model, run.Provider,
		run.CostUSD, run.Duration.Milliseconds(), run.TotalTokens,
		run.ContextJSON, run.Result, run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (r *Runs) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, user, intent, model, provider, cost_usd, duration_ms, total_tokens, context_json, result, created_at
	          FROM runs ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(runs)).Msg("loaded run history")
	return runs, nil
}

func (r *Runs) Get(ctx context.Context, id string) (Run, error) {
	query := `SELECT id, user, intent, model, provider, cost_usd, duration_ms, total_tokens, context_json, result, created_at
	          FROM runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func scanRun(scan func(dest ...any) error) (Run, error) {
	var run Run
	var durationMS int64
	var createdAt string

	err := scan(&run.ID, &run.User, &run.Intent, &run.Model, &run.Provider,
		&run.CostUSD, &durationMS, &run.TotalTokens,
		&run.ContextJSON, &run.Result, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Duration = time.Duration(durationMS) * time.Millisecond

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("failed to parse run timestamp: %w", err)
	}
	run.CreatedAt = ts

	return run, nil
}
