package models

import "time"

type Reservation struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:20;uniqueIndex;not null" json:"code"`

	// Contact snapshot taken at booking time; independent of the account.
	CustomerID    *uint  `gorm:"index" json:"customer_id"`
	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20;not null" json:"customer_phone"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`

	CreatedByID   *uint  `json:"created_by_id"`
	CreatedByRole string `gorm:"size:20" json:"created_by_role"`

	PackageID  uint    `gorm:"not null" json:"package_id"`
	Package    Package `gorm:"foreignKey:PackageID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	BarberID   uint    `gorm:"not null;index" json:"barber_id"`
	Barber     Barber  `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	ScheduleID uint    `gorm:"not null;index" json:"schedule_id"`

	// Slot snapshot; the schedule row itself is removed by retention.
	SlotDate string `gorm:"size:10;index" json:"slot_date"`
	SlotTime string `gorm:"size:5" json:"slot_time"`

	TotalPrice    int64  `gorm:"not null" json:"total_price"`
	Notes         string `gorm:"size:255" json:"notes"`
	Status        string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod string `gorm:"size:20" json:"payment_method"`
	IsWalkIn      bool   `gorm:"default:false" json:"is_walk_in"`

	PaymentProofAt *time.Time `json:"payment_proof_at"`

	ConfirmedByID      *uint      `json:"confirmed_by_id"`
	ConfirmedAt        *time.Time `json:"confirmed_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedByID      *uint      `json:"completed_by_id"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledByID      *uint      `json:"cancelled_by_id"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`

	Version int `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
