package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	ucReservation "github.com/BruksfildServices01/barbershop-booking/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	createUC   *ucReservation.CreateReservation
	walkInUC   *ucReservation.CreateWalkIn
	getUC      *ucReservation.GetReservation
	listUC     *ucReservation.ListReservations
	confirmUC  *ucReservation.ConfirmReservation
	startUC    *ucReservation.StartReservation
	completeUC *ucReservation.CompleteReservation
	cancelUC   *ucReservation.CancelReservation
}

func NewReservationHandler(
	createUC *ucReservation.CreateReservation,
	walkInUC *ucReservation.CreateWalkIn,
	getUC *ucReservation.GetReservation,
	listUC *ucReservation.ListReservations,
	confirmUC *ucReservation.ConfirmReservation,
	startUC *ucReservation.StartReservation,
	completeUC *ucReservation.CompleteReservation,
	cancelUC *ucReservation.CancelReservation,
) *ReservationHandler {
	return &ReservationHandler{
		createUC:   createUC,
		walkInUC:   walkInUC,
		getUC:      getUC,
		listUC:     listUC,
		confirmUC:  confirmUC,
		startUC:    startUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	CustomerName  string `json:"customer_name" binding:"max=100"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,phone"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`

	PackageID     uint   `json:"package_id" binding:"required"`
	BarberID      uint   `json:"barber_id" binding:"required"`
	SlotID        uint   `json:"slot_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=transfer qris cash gateway"`
	Notes         string `json:"notes" binding:"max=255"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.createUC.Execute(c.Request.Context(), ucReservation.CreateInput{
		Actor:         middleware.Actor(c),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PackageID:     req.PackageID,
		BarberID:      req.BarberID,
		SlotID:        req.SlotID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err, "create_reservation_failed")
		return
	}

	httpresp.Created(c, res)
}

func (h *ReservationHandler) CreateWalkIn(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.walkInUC.Execute(c.Request.Context(), ucReservation.WalkInInput{
		Cashier:       middleware.Actor(c),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PackageID:     req.PackageID,
		BarberID:      req.BarberID,
		SlotID:        req.SlotID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err, "create_walk_in_failed")
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// QUERIES
// ======================================================

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.getUC.Execute(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.FromError(c, err, "get_reservation_failed")
		return
	}

	httpresp.OK(c, res)
}

// List serves both the customer history and the staff listing; customers
// only ever see their own reservations.
func (h *ReservationHandler) List(c *gin.Context) {
	out, err := h.listUC.Execute(c.Request.Context(), ucReservation.ListInput{
		Viewer:   middleware.Actor(c),
		Status:   c.Query("status"),
		BarberID: queryUint(c, "barber_id"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	})
	if err != nil {
		httperr.FromError(c, err, "list_reservations_failed")
		return
	}

	httpresp.Page(c, dto.ReservationList(out.Items), out.Total, out.Page, out.PageSize)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, "confirm_failed", h.confirmUC.Execute)
}

func (h *ReservationHandler) Start(c *gin.Context) {
	h.transition(c, "start_failed", h.startUC.Execute)
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, "complete_failed", h.completeUC.Execute)
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
	}

	res, err := h.cancelUC.Execute(c.Request.Context(), id, middleware.Actor(c), req.Reason)
	if err != nil {
		httperr.FromError(c, err, "cancel_failed")
		return
	}

	httpresp.OK(c, res)
}

func (h *ReservationHandler) transition(
	c *gin.Context,
	fallback string,
	exec func(ctx context.Context, id uint, actor booking.Actor) (*models.Reservation, error),
) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := exec(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.FromError(c, err, fallback)
		return
	}

	httpresp.OK(c, res)
}
