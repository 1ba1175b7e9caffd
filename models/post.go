package models

import "time"

const (
	PostVisible = "visible"
	PostHidden  = "hidden"
)

// Post is a matchmaking post: a reservation opened up to other players.
// ReservationID is nullable so ordinary social posts share the table; when
// present it is unique, one reservation can back at most one post.
type Post struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint         `gorm:"not null" json:"user_id"`
	User           User         `gorm:"foreignKey:UserID" json:"user"`
	ReservationID  *uint        `gorm:"uniqueIndex" json:"reservation_id"`
	Reservation    *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	MaxPlayers     int          `gorm:"not null;default:10" json:"max_players"`
	CurrentPlayers int          `gorm:"not null;default:1" json:"current_players"`
	Status         string       `gorm:"size:20;default:'visible';index" json:"status"` // visible | hidden
	AutoHidden     bool         `gorm:"default:false" json:"auto_hidden"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`

	Images      []PostImage  `gorm:"foreignKey:PostID" json:"images"`
	Invitations []Invitation `gorm:"foreignKey:PostID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

type PostImage struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	URL      string `gorm:"size:500;not null" json:"url"`
	Position int    `gorm:"default:0" json:"position"`
}

func (PostImage) TableName() string {
	return "post_images"
}
