// Package querylog persists one row per answered query so operators can
// review recent traffic, latency and estimated spend.
package querylog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/finquery/internal/db"
	"github.com/ziadkadry99/finquery/internal/llm"
)

// Entry is one logged query with its outcome summary.
type Entry struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Query        string    `json:"query"`
	Mode         string    `json:"mode"`
	Answer       string    `json:"answer"`
	Providers    []string  `json:"providers"`
	LatencyMS    int64     `json:"latency_ms"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	EstCostUSD   float64   `json:"est_cost_usd"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store provides insert and read access to the query log.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a log entry. If entry.ID is empty a UUID is generated, and
// if EstCostUSD is zero it is estimated from the token counts and model.
func (s *Store) Record(ctx context.Context, entry Entry, model string) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Mode == "" {
		entry.Mode = "quick"
	}
	if entry.EstCostUSD == 0 {
		entry.EstCostUSD = llm.EstimateCost(model, entry.InputTokens, entry.OutputTokens)
	}

	providers, err := json.Marshal(entry.Providers)
	if err != nil {
		return fmt.Errorf("marshalling providers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_log (
			id, session_id, query, mode, answer, providers,
			latency_ms, input_tokens, output_tokens, est_cost_usd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SessionID,
		entry.Query,
		entry.Mode,
		entry.Answer,
		string(providers),
		entry.LatencyMS,
		entry.InputTokens,
		entry.OutputTokens,
		entry.EstCostUSD,
	)
	if err != nil {
		return fmt.Errorf("inserting query log entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first. A limit <= 0
// defaults to 50.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, query, mode, answer, providers,
			   latency_ms, input_tokens, output_tokens, est_cost_usd, created_at
		FROM query_log
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying log entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			providers string
		)
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.Query, &e.Mode, &e.Answer, &providers,
			&e.LatencyMS, &e.InputTokens, &e.OutputTokens, &e.EstCostUSD, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		if err := json.Unmarshal([]byte(providers), &e.Providers); err != nil {
			return nil, fmt.Errorf("unmarshalling providers: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
