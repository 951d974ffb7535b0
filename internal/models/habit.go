package models

import (
	"time"

	"github.com/google/uuid"
)

// Habit represents a habit row. Cadence is free text ("Daily", "3x/week").
type Habit struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Cadence    string     `json:"cadence"`
	Streak     *int       `json:"streak,omitempty"`
	GoalID     *uuid.UUID `json:"goal_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
