package models

import "time"

const (
	DefaultStatus   = "Not Started"
	DefaultPriority = "Medium"

	// Display values used when a task has no assignee or the assignee no longer exists.
	Unassigned  = "Unassigned"
	UnknownUser = "Unknown User"
)

type Task struct {
	ID          string     `bson:"_id" json:"taskID"`
	ProjectID   string     `bson:"projectID" json:"projectID"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Status      string     `bson:"status" json:"status"`
	Priority    string     `bson:"priority" json:"priority"`
	AssignedTo  string     `bson:"assignedTo" json:"assignedTo"`
	DueDate     string     `bson:"dueDate" json:"dueDate"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// TaskView is a task enriched with its assignee's current display fields.
type TaskView struct {
	Task
	AssignedUsername string `json:"assignedUsername"`
	AssignedAvatar   string `json:"assignedAvatar"`
}

// TaskUpdate holds the allow-listed fields shared by tasks and subtasks; nil means unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	AssignedTo  *string
	UpdatedAt   time.Time
}
