package models

import "time"

const AnonymousUser = "Anonymous"

type Comment struct {
	ID        string    `bson:"_id" json:"commentID"`
	TaskID    string    `bson:"taskID" json:"taskID"`
	UserID    string    `bson:"userID" json:"userID"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CommentView carries the author's name and avatar as of the read.
type CommentView struct {
	Comment
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
