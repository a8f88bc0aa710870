package domain

import "time"

type NotificationType string

const (
	NotificationFollowed  NotificationType = "FOLLOWED_BY_USER"
	NotificationMentioned NotificationType = "MENTIONED_IN_POST"
)

type Notification struct {
	ID           string
	UserID       string // recipient
	Type         NotificationType
	SourceUserID string
	PostID       string // empty unless Type is NotificationMentioned
	IsNew        bool
	CreatedAt    time.Time
}
