// README: Compose-usage and transcript persistence backed by PostgreSQL.
package usage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"voxguide/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseCall atomically checks the caller's monthly quota and deducts one
// composed reply. The counter resets to DefaultCalls when
// last_reset_month is behind the current month. Returns ErrQuotaExhausted
// when 0 rows are updated (quota exhausted or caller absent).
func (s *Store) UseCall(ctx context.Context, caller string) error {
	now := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE compose_usage SET
			calls_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE calls_remaining - 1 END,
			last_reset_month = $1
		WHERE caller = $3 AND (last_reset_month < $1 OR calls_remaining > 0)
	`, now, DefaultCalls, caller)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExhausted
	}
	return nil
}

// EnsureCaller inserts a compose_usage row for caller with the default
// allowance. An existing row is silently left alone.
func (s *Store) EnsureCaller(ctx context.Context, caller string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO compose_usage (caller, calls_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (caller) DO NOTHING
	`, caller, DefaultCalls, time.Now().Format("2006-01"))
	return err
}

// SaveTranscript appends one turn to the transcripts table.
func (s *Store) SaveTranscript(ctx context.Context, t *Transcript) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO transcripts (call_id, caller, query, response, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(t.CallID),
		t.Caller,
		t.Query,
		t.Response,
		t.Kind,
		t.CreatedAt,
	)
	return err
}

// Transcripts returns the turns of one call in chronological order.
func (s *Store) Transcripts(ctx context.Context, callID types.ID) ([]Transcript, error) {
	rows, err := s.db.Query(ctx, `
		SELECT call_id, caller, query, response, kind, created_at
		FROM transcripts
		WHERE call_id = $1
		ORDER BY created_at`, string(callID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		var t Transcript
		if err := rows.Scan(&t.CallID, &t.Caller, &t.Query, &t.Response, &t.Kind, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
