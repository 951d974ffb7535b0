package models

import (
	"time"

	"github.com/google/uuid"
)

// Horizon classifies a goal's time scale
type Horizon string

const (
	HorizonShort Horizon = "short"
	HorizonMid   Horizon = "mid"
	HorizonLong  Horizon = "long"
)

// Goal represents a goal row
type Goal struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Horizon     Horizon    `json:"horizon"`
	Purpose     *string    `json:"purpose,omitempty"`
	IdentityTag *string    `json:"identity_tag,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	ColorHex    *string    `json:"color_hex,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
