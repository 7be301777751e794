package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ReservationListDTO is the history row shown to customers and staff.
type ReservationListDTO struct {
	ID            uint       `json:"id"`
	Code          string     `json:"code"`
	Status        string     `json:"status"`
	SlotDate      string     `json:"slot_date"`
	SlotTime      string     `json:"slot_time"`
	BarberID      uint       `json:"barber_id"`
	PackageID     uint       `json:"package_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	TotalPrice    int64      `json:"total_price"`
	PaymentMethod string     `json:"payment_method"`
	IsWalkIn      bool       `json:"is_walk_in"`
	PaymentProof  bool       `json:"payment_proof"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

func ReservationList(items []models.Reservation) []ReservationListDTO {
	out := make([]ReservationListDTO, len(items))
	for i, r := range items {
		out[i] = ReservationListDTO{
			ID:            r.ID,
			Code:          r.Code,
			Status:        r.Status,
			SlotDate:      r.SlotDate,
			SlotTime:      r.SlotTime,
			BarberID:      r.BarberID,
			PackageID:     r.PackageID,
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			TotalPrice:    r.TotalPrice,
			PaymentMethod: r.PaymentMethod,
			IsWalkIn:      r.IsWalkIn,
			PaymentProof:  r.PaymentProofAt != nil,
			CreatedAt:     r.CreatedAt,
			CompletedAt:   r.CompletedAt,
			CancelledAt:   r.CancelledAt,
		}
	}
	return out
}

// SlotDTO is the public view of a slot; the reservation link stays internal.
type SlotDTO struct {
	ID        uint   `json:"id"`
	BarberID  uint   `json:"barber_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Status    string `json:"status"`
	IsDefault bool   `json:"is_default_slot"`
}

func SlotList(items []models.Schedule) []SlotDTO {
	out := make([]SlotDTO, len(items))
	for i, s := range items {
		out[i] = SlotDTO{
			ID:        s.ID,
			BarberID:  s.BarberID,
			Date:      s.Date,
			TimeSlot:  s.TimeSlot,
			Status:    s.Status,
			IsDefault: s.IsDefaultSlot,
		}
	}
	return out
}
