// README: Redis-backed dialogue snapshots so state survives process restarts.
package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voxguide/internal/types"
)

const snapshotKeyPrefix = "dialogue:call:%s:state"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

// Save writes the call's state snapshot with the configured TTL.
func (s *Store) Save(ctx context.Context, st *State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, snapshotKey(st.CallID), payload, s.ttl).Err()
}

// Load fetches a snapshot. The second return reports whether one existed.
func (s *Store) Load(ctx context.Context, callID types.ID) (*State, bool, error) {
	val, err := s.redis.Get(ctx, snapshotKey(callID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	st := NewState(callID)
	if err := json.Unmarshal(val, st); err != nil {
		return nil, false, err
	}
	// Maps may arrive nil from an older snapshot.
	if st.ShownPlaceIDs == nil {
		st.ShownPlaceIDs = make(map[types.ID]bool)
	}
	if st.RejectedPlaceIDs == nil {
		st.RejectedPlaceIDs = make(map[types.ID]bool)
	}
	if st.PreferredPlaceIDs == nil {
		st.PreferredPlaceIDs = make(map[types.ID]bool)
	}
	if st.DiscussionDepth == nil {
		st.DiscussionDepth = make(map[types.ID]int)
	}
	return st, true, nil
}

// Delete drops the snapshot at call end.
func (s *Store) Delete(ctx context.Context, callID types.ID) error {
	return s.redis.Del(ctx, snapshotKey(callID)).Err()
}

func snapshotKey(callID types.ID) string {
	return fmt.Sprintf(snapshotKeyPrefix, string(callID))
}
