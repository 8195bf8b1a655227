package models

import "time"

type Project struct {
	ID          string     `bson:"_id" json:"projectID"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	OwnerID     string     `bson:"ownerID" json:"ownerID"`
	Members     []string   `bson:"members" json:"members"`
	Deadline    string     `bson:"deadline" json:"deadline"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// HasMember reports whether userID owns or belongs to the project.
func (p *Project) HasMember(userID string) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ProjectUpdate holds the allow-listed project fields; nil means unchanged.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Deadline    *string
	Members     *[]string
	UpdatedAt   time.Time
}

type ProjectDetail struct {
	Project        *Project        `json:"project"`
	MemberProfiles []MemberProfile `json:"memberProfiles"`
}

type TaskOverview struct {
	TaskID       string `json:"taskID"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	DueDate      string `json:"dueDate"`
	CommentCount int64  `json:"commentCount"`
}

type ProjectOverview struct {
	ProjectID   string         `json:"projectID"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Deadline    string         `json:"deadline"`
	Members     []string       `json:"members"`
	Tasks       []TaskOverview `json:"tasks"`
}
