package models

import "time"

type Notification struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	SenderID    uint      `json:"sender_id"`
	Type        string    `gorm:"size:50;not null" json:"type"` // invite | invite_accepted
	SubjectID   uint      `json:"subject_id"`
	Message     string    `gorm:"size:255" json:"message"`
	Read        bool      `gorm:"default:false" json:"read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
