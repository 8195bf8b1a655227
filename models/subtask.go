package models

import "time"

type Subtask struct {
	ID          string     `bson:"_id" json:"subtaskID"`
	TaskID      string     `bson:"taskID" json:"taskID"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Status      string     `bson:"status" json:"status"`
	Priority    string     `bson:"priority" json:"priority"`
	AssignedTo  string     `bson:"assignedTo" json:"assignedTo"`
	DueDate     string     `bson:"dueDate" json:"dueDate"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type SubtaskView struct {
	Subtask
	AssignedUsername string `json:"assignedUsername"`
	AssignedAvatar   string `json:"assignedAvatar"`
}
