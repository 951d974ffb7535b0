package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("goal_horizon", validateGoalHorizon); err != nil {
		panic(fmt.Sprintf("failed to register goal_horizon validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("note_type", validateNoteType); err != nil {
		panic(fmt.Sprintf("failed to register note_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("agent_mode", validateAgentMode); err != nil {
		panic(fmt.Sprintf("failed to register agent_mode validator: %v", err))
	}
}

// validateGoalHorizon validates that a string is a valid Horizon enum value
func validateGoalHorizon(fl validator.FieldLevel) bool {
	switch models.Horizon(fl.Field().String()) {
	case models.HorizonShort, models.HorizonMid, models.HorizonLong:
		return true
	default:
		return false
	}
}

// validateTaskStatus validates that a string is a valid TaskStatus enum value
func validateTaskStatus(fl validator.FieldLevel) bool {
	switch models.TaskStatus(fl.Field().String()) {
	case models.TaskStatusOpen, models.TaskStatusInProgress, models.TaskStatusDone, models.TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// validateNoteType validates that a string is a valid NoteType enum value
func validateNoteType(fl validator.FieldLevel) bool {
	switch models.NoteType(fl.Field().String()) {
	case models.NoteTypeJournal, models.NoteTypeNote:
		return true
	default:
		return false
	}
}

// validateAgentMode validates that a string is a recognized coach mode
func validateAgentMode(fl validator.FieldLevel) bool {
	switch agent.Mode(fl.Field().String()) {
	case agent.ModeDaily, agent.ModeGoalDeepDive, agent.ModeRetro, agent.ModeChat:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateGoalHorizon validates a Horizon string value
func ValidateGoalHorizon(value string) error {
	switch models.Horizon(value) {
	case models.HorizonShort, models.HorizonMid, models.HorizonLong:
		return nil
	default:
		return fmt.Errorf("invalid horizon: %s (must be 'short', 'mid', or 'long')", value)
	}
}

// ValidateTaskStatus validates a TaskStatus string value
func ValidateTaskStatus(value string) error {
	switch models.TaskStatus(value) {
	case models.TaskStatusOpen, models.TaskStatusInProgress, models.TaskStatusDone, models.TaskStatusBlocked:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'open', 'in_progress', 'done', or 'blocked')", value)
	}
}

// ValidateAgentMode validates a coach mode string value
func ValidateAgentMode(value string) error {
	switch agent.Mode(value) {
	case agent.ModeDaily, agent.ModeGoalDeepDive, agent.ModeRetro, agent.ModeChat:
		return nil
	default:
		return fmt.Errorf("invalid mode: %s (must be 'daily', 'goal_deep_dive', 'retro', or 'chat')", value)
	}
}
