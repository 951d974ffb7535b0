package models

import (
	"time"

	"github.com/google/uuid"
)

// Milestone represents a milestone row
type Milestone struct {
	ID        uuid.UUID  `json:"id"`
	GoalID    *uuid.UUID `json:"goal_id,omitempty"`
	Title     string     `json:"title"`
	Due       *time.Time `json:"due,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
}
