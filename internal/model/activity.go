package model

import "time"

// Activity kinds published to the audit queue.
const (
	ActivityUserRegistered = "user.registered"
	ActivityUserDeleted    = "user.deleted"
	ActivityPostCreated    = "post.created"
	ActivityPostUpdated    = "post.updated"
	ActivityPostDeleted    = "post.deleted"
	ActivityCommentCreated = "comment.created"
	ActivityCommentDeleted = "comment.deleted"
)

// Activity is an audit log row. Rows are written only by the activity worker,
// never by request handlers.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:32;not null;index" json:"kind"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	SubjectID uint      `gorm:"index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
}
