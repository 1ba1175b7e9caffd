package models

import "time"

type Reservation struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"not null" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
	FieldID       uint      `gorm:"not null" json:"field_id"`
	Field         Field     `gorm:"foreignKey:FieldID" json:"field"`
	StartTime     time.Time `gorm:"not null" json:"start_time"`
	EndTime       time.Time `gorm:"not null;index" json:"end_time"`
	DepositAmount float64   `gorm:"default:0" json:"deposit_amount"`
	Status        string    `gorm:"size:20;default:'pending'" json:"status"` // pending | confirmed | cancelled
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}
