package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	AvatarURL *string   `gorm:"size:255" json:"avatar_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Posts        []Post        `gorm:"foreignKey:UserID" json:"-"`
	Reservations []Reservation `gorm:"foreignKey:UserID" json:"-"`
}
