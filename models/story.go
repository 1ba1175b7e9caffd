package models

import "time"

const (
	StoryActive   = "active"
	StoryExpired  = "expired"
	StoryArchived = "archived"
)

// Story is ephemeral content. Status only moves forward
// (active -> expired -> archived); once archived its media has been
// relocated to the archive directory.
type Story struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Caption   string    `gorm:"size:255" json:"caption"`
	MediaPath *string   `gorm:"size:500" json:"media_path"`
	Views     int       `gorm:"default:0" json:"views"`
	Status    string    `gorm:"size:20;default:'active';index" json:"status"` // active | expired | archived
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (Story) TableName() string {
	return "stories"
}
