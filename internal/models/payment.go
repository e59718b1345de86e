package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment records a transaction with the external provider. Rows are
// created by payment initiation and mutated only by verification.
type Payment struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID     `gorm:"type:uuid;not null;index" json:"booking_id"`
	Amount    float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	TxRef     string        `gorm:"size:100;not null;uniqueIndex" json:"tx_ref"`
	Status    PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"booking,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
