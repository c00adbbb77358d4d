package models

import "time"

type GoalStatus string

const (
	GoalStatusDraft     GoalStatus = "draft"
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Goal is a user-owned objective grouped under a theme. Parent and
// child IDs are plain pointers; referential integrity is not enforced.
type Goal struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	ThemeID      string     `json:"theme_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       GoalStatus `json:"status"`
	ParentGoalID string     `json:"parent_goal_id,omitempty"`
	ChildGoalIDs []string   `json:"child_goal_ids,omitempty"`
	StartDate    string     `json:"start_date,omitempty"` // YYYY-MM-DD
	DueDate      string     `json:"due_date,omitempty"`   // YYYY-MM-DD
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SMARTGoal carries the SMART breakdown for a goal.
type SMARTGoal struct {
	GoalID     string `json:"goal_id"`
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	TimeBound  string `json:"time_bound"`
}

// Theme is a user-chosen focus area that goals are grouped under.
type Theme struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
