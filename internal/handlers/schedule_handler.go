package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	ucSchedule "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	generateUC     *ucSchedule.GenerateSlots
	createUC       *ucSchedule.CreateSlot
	toggleUC       *ucSchedule.ToggleSlot
	availabilityUC *ucSchedule.ListAvailability
}

func NewScheduleHandler(
	generateUC *ucSchedule.GenerateSlots,
	createUC *ucSchedule.CreateSlot,
	toggleUC *ucSchedule.ToggleSlot,
	availabilityUC *ucSchedule.ListAvailability,
) *ScheduleHandler {
	return &ScheduleHandler{
		generateUC:     generateUC,
		createUC:       createUC,
		toggleUC:       toggleUC,
		availabilityUC: availabilityUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GenerateSlotsRequest struct {
	StartDate string `json:"start_date" binding:"required,date"`
	EndDate   string `json:"end_date" binding:"required,date"`
	BarberID  *uint  `json:"barber_id"`
}

type CreateSlotRequest struct {
	BarberID uint   `json:"barber_id" binding:"required"`
	Date     string `json:"date" binding:"required,date"`
	TimeSlot string `json:"time_slot" binding:"required,clock"`
}

type ToggleSlotRequest struct {
	Status string `json:"status" binding:"required,oneof=available unavailable"`
	Reason string `json:"reason" binding:"max=255"`
}

// ======================================================
// AVAILABILITY (public)
// ======================================================

// Availability lists one barber's day. ?all=true also returns slots that
// cannot be booked.
func (h *ScheduleHandler) Availability(c *gin.Context) {
	barberID, ok := parseID(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_date", "date is required (YYYY-MM-DD).")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), ucSchedule.ListAvailabilityInput{
		BarberID:     barberID,
		Date:         date,
		OnlyBookable: c.Query("all") != "true",
	})
	if err != nil {
		httperr.FromError(c, err, "availability_failed")
		return
	}

	httpresp.List(c, dto.SlotList(slots))
}

// ======================================================
// STAFF
// ======================================================

func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	created, err := h.generateUC.Execute(c.Request.Context(), ucSchedule.GenerateSlotsInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		BarberID:  req.BarberID,
		Actor:     middleware.Actor(c),
	})
	if err != nil {
		httperr.FromError(c, err, "generate_slots_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
		"created":    created,
	})
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slot, err := h.createUC.Execute(c.Request.Context(), ucSchedule.CreateSlotInput{
		BarberID: req.BarberID,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Actor:    middleware.Actor(c),
	})
	if err != nil {
		httperr.FromError(c, err, "create_slot_failed")
		return
	}

	httpresp.Created(c, dto.SlotList([]models.Schedule{*slot})[0])
}

func (h *ScheduleHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ToggleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slot, err := h.toggleUC.Execute(c.Request.Context(), ucSchedule.ToggleSlotInput{
		SlotID: id,
		Status: req.Status,
		Reason: req.Reason,
		Actor:  middleware.Actor(c),
	})
	if err != nil {
		httperr.FromError(c, err, "toggle_slot_failed")
		return
	}

	httpresp.OK(c, dto.SlotList([]models.Schedule{*slot})[0])
}
