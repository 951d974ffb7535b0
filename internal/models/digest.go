package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Digest stores the decoded coach response for one offline retro run.
// Response holds the coach response JSON verbatim.
type Digest struct {
	ID          uuid.UUID       `json:"id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Response    json.RawMessage `json:"response"`
	CreatedAt   time.Time       `json:"created_at"`
}
