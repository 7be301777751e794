package models

import "time"

// Schedule is one bookable hour of a barber. (barber_id, date, time_slot) is unique.
type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"not null;uniqueIndex:idx_schedule_slot,priority:1" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Date          string    `gorm:"size:10;not null;uniqueIndex:idx_schedule_slot,priority:2;index" json:"date"`
	TimeSlot      string    `gorm:"size:5;not null;uniqueIndex:idx_schedule_slot,priority:3" json:"time_slot"`
	ScheduledTime time.Time `gorm:"not null;index" json:"scheduled_time"`
	DayOfWeek     int       `json:"day_of_week"`

	Status        string `gorm:"size:20;not null;default:'available';index" json:"status"`
	ReservationID *uint  `json:"reservation_id"`
	IsDefaultSlot bool   `gorm:"not null" json:"is_default_slot"`

	CompletedAt  *time.Time `json:"completed_at"`
	ModifiedByID *uint      `json:"modified_by_id"`
	ModifiedAt   *time.Time `json:"modified_at"`
	ModifyReason string     `gorm:"size:255" json:"modify_reason"`

	Version int `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
