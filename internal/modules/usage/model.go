package usage

import (
	"errors"
	"time"

	"voxguide/internal/types"
)

// ErrQuotaExhausted is returned when a caller has no composed replies left
// for the current month.
var ErrQuotaExhausted = errors.New("compose quota exhausted")

// DefaultCalls is the number of composed replies granted per caller per month.
const DefaultCalls = 300

// Transcript is one persisted turn of a call: what the caller said and
// what the assistant replied.
type Transcript struct {
	CallID    types.ID  `json:"call_id"`
	Caller    string    `json:"caller"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
