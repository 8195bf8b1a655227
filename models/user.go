package models

import "time"

const DefaultRole = "member"

type User struct {
	ID        string    `bson:"_id" json:"userID"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	Avatar    string    `bson:"avatar" json:"avatar"`
	Projects  []string  `bson:"projects" json:"projects"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the projection returned by the user listing.
type UserSummary struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// MemberProfile is a project member resolved against its current profile.
type MemberProfile struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Credential is a locally managed login, used when no external identity provider is configured.
type Credential struct {
	UID          string    `bson:"_id" json:"uid"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
