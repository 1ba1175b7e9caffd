package models

import "time"

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteRejected = "rejected"
)

// Invitation tracks one candidate's slot offer on a post. At most one row
// per (post, user); status only moves pending -> accepted|rejected.
type Invitation struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID      uint       `gorm:"not null;uniqueIndex:idx_invitations_post_user" json:"post_id"`
	Post        Post       `gorm:"foreignKey:PostID" json:"-"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_invitations_post_user" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user"`
	InviterID   uint       `gorm:"not null" json:"inviter_id"`
	Status      string     `gorm:"size:20;default:'pending';index" json:"status"` // pending | accepted | rejected
	InvitedAt   time.Time  `gorm:"not null" json:"invited_at"`
	RespondedAt *time.Time `json:"responded_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}
