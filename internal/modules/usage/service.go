package usage

import (
	"context"
	"time"

	"voxguide/internal/types"
)

// Service orchestrates compose-quota accounting and transcript logging.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseCall deducts one composed reply from the caller's monthly allowance.
// If the caller row does not exist yet it is initialised and the call is
// immediately consumed. Returns ErrQuotaExhausted when the month's
// allowance is spent.
func (s *Service) UseCall(ctx context.Context, caller string) error {
	err := s.store.UseCall(ctx, caller)
	if err != ErrQuotaExhausted {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureCaller(ctx, caller); initErr != nil {
		return initErr
	}
	return s.store.UseCall(ctx, caller)
}

// RecordTurn persists one transcript row for the call.
func (s *Service) RecordTurn(ctx context.Context, callID types.ID, caller, query, response, kind string) error {
	return s.store.SaveTranscript(ctx, &Transcript{
		CallID:    callID,
		Caller:    caller,
		Query:     query,
		Response:  response,
		Kind:      kind,
		CreatedAt: time.Now(),
	})
}

// Transcripts returns the persisted turns of one call.
func (s *Service) Transcripts(ctx context.Context, callID types.ID) ([]Transcript, error) {
	return s.store.Transcripts(ctx, callID)
}
