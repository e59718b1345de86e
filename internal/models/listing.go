package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Listing struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HostID        uuid.UUID `gorm:"type:uuid;not null;index" json:"host_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Address       string    `gorm:"size:255" json:"address"`
	City          string    `gorm:"size:100;index" json:"city"`
	Country       string    `gorm:"size:100" json:"country"`
	PricePerNight float64   `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	MaxGuests     int       `gorm:"not null;default:1" json:"max_guests"`
	Bedrooms      int       `gorm:"not null;default:1" json:"bedrooms"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Host *User `gorm:"foreignKey:HostID" json:"host,omitempty"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
