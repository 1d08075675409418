package model

import "time"

// Announcement is an append-only broadcast message. Announcements are never
// updated or deleted.
type Announcement struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}
