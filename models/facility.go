package models

import "time"

type Facility struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   uint      `gorm:"not null" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"-"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Fields []Field `gorm:"foreignKey:FacilityID" json:"-"`
}

func (Facility) TableName() string {
	return "facilities"
}

type Field struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID   uint     `gorm:"not null" json:"facility_id"`
	Facility     Facility `gorm:"foreignKey:FacilityID" json:"facility"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	SportType    string   `gorm:"size:50;not null;index" json:"sport_type"` // football | badminton | tennis | ...
	PricePerHour float64  `json:"price_per_hour"`
}
