package models

import "time"

type Payment struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ReservationID uint `gorm:"uniqueIndex;not null" json:"reservation_id"`

	Amount     int64  `json:"amount"`
	Method     string `gorm:"size:20" json:"method"`
	Status     string `gorm:"size:20;not null;default:'pending'" json:"status"`
	ExternalID string `gorm:"size:64" json:"external_id"`

	ProofURL string `gorm:"size:512" json:"proof_url"`
	ProofKey string `gorm:"size:255" json:"-"`

	VerifiedByID    *uint      `json:"verified_by_id"`
	VerifiedAt      *time.Time `json:"verified_at"`
	RejectionReason string     `gorm:"size:255" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)
