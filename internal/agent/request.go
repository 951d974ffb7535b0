package agent

// Mode selects the coaching flow for one request
type Mode string

const (
	ModeDaily        Mode = "daily"
	ModeGoalDeepDive Mode = "goal_deep_dive"
	ModeRetro        Mode = "retro"
	ModeChat         Mode = "chat"
)

// Goal is the flattened goal shape sent to the coach
type Goal struct {
	ID       *string  `json:"id,omitempty"`
	Title    string   `json:"title"`
	Horizon  *string  `json:"horizon,omitempty"`
	Progress *float64 `json:"progress,omitempty"`
	Status   *string  `json:"status,omitempty"`
}

// Task is the flattened task shape sent to the coach
type Task struct {
	ID     *string `json:"id,omitempty"`
	Title  string  `json:"title"`
	Status *string `json:"status,omitempty"`
	Due    *string `json:"due,omitempty"`
	GoalID *string `json:"goal_id,omitempty"`
}

// Habit is the flattened habit shape sent to the coach
type Habit struct {
	ID     *string `json:"id,omitempty"`
	Title  string  `json:"title"`
	Streak *int    `json:"streak,omitempty"`
	GoalID *string `json:"goal_id,omitempty"`
}

// ChatMessage is one turn of a chat-mode conversation
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// Request is the coach gateway request payload.
// Non-chat modes carry goals/tasks/habits/notes; chat mode carries ChatHistory.
type Request struct {
	Mode        Mode          `json:"mode" validate:"required,agent_mode"`
	Goals       []Goal        `json:"goals"`
	Tasks       []Task        `json:"tasks"`
	Habits      []Habit       `json:"habits"`
	Notes       []string      `json:"notes"`
	FocusGoalID *string       `json:"focus_goal_id,omitempty"`
	ChatHistory []ChatMessage `json:"chat_history,omitempty"`
}
