package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// DirectoryHandler manages barbers and service packages.
type DirectoryHandler struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewDirectoryHandler(repo booking.Repository, audit *audit.Dispatcher) *DirectoryHandler {
	return &DirectoryHandler{repo: repo, audit: audit}
}

// ======================================================
// REQUESTS
// ======================================================

type BarberRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	PhotoURL string `json:"photo_url" binding:"omitempty,url,max=255"`
	IsActive *bool  `json:"is_active"`
}

type PackageRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	DurationMin int    `json:"duration_min" binding:"gte=0,lte=480"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	IsActive    *bool  `json:"is_active"`
}

// ======================================================
// BARBERS
// ======================================================

// ListBarbers returns active barbers; staff may pass ?all=true.
func (h *DirectoryHandler) ListBarbers(c *gin.Context) {
	onlyActive := !(c.Query("all") == "true" && middleware.Actor(c).IsStaff())

	items, err := h.repo.ListBarbers(c.Request.Context(), onlyActive)
	if err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}
	httpresp.List(c, items)
}

func (h *DirectoryHandler) CreateBarber(c *gin.Context) {
	var req BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b := &models.Barber{
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		PhotoURL: req.PhotoURL,
		IsActive: true,
	}
	if err := h.repo.SaveBarber(c.Request.Context(), b); err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Could not create barber.")
		return
	}

	h.record(c, "barber_created", "barber", b.ID)
	c.JSON(http.StatusCreated, b)
}

func (h *DirectoryHandler) UpdateBarber(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.repo.GetBarber(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, err, "barber_not_found")
		return
	}

	b.Name = strings.TrimSpace(req.Name)
	b.Phone = req.Phone
	b.PhotoURL = req.PhotoURL
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	if err := h.repo.SaveBarber(c.Request.Context(), b); err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Could not update barber.")
		return
	}

	h.record(c, "barber_updated", "barber", b.ID)
	httpresp.OK(c, b)
}

// ======================================================
// PACKAGES
// ======================================================

func (h *DirectoryHandler) ListPackages(c *gin.Context) {
	onlyActive := !(c.Query("all") == "true" && middleware.Actor(c).IsStaff())

	items, err := h.repo.ListPackages(c.Request.Context(), onlyActive)
	if err != nil {
		httperr.Internal(c, "failed_to_list_packages", "Could not list packages.")
		return
	}
	httpresp.List(c, items)
}

func (h *DirectoryHandler) CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	p := &models.Package{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		IsActive:    true,
	}
	if err := h.repo.SavePackage(c.Request.Context(), p); err != nil {
		httperr.Internal(c, "failed_to_create_package", "Could not create package.")
		return
	}

	h.record(c, "package_created", "package", p.ID)
	c.JSON(http.StatusCreated, p)
}

func (h *DirectoryHandler) UpdatePackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	p, err := h.repo.GetPackage(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, err, "package_not_found")
		return
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.DurationMin = req.DurationMin
	p.Price = req.Price
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := h.repo.SavePackage(c.Request.Context(), p); err != nil {
		httperr.Internal(c, "failed_to_update_package", "Could not update package.")
		return
	}

	h.record(c, "package_updated", "package", p.ID)
	httpresp.OK(c, p)
}

// ======================================================
// HELPERS
// ======================================================

func (h *DirectoryHandler) lookupFailed(c *gin.Context, err error, code string) {
	if errors.Is(err, booking.ErrNotFound) {
		httperr.NotFound(c, code, "Not found.")
		return
	}
	httperr.Internal(c, "internal_error", "Lookup failed.")
}

func (h *DirectoryHandler) record(c *gin.Context, action, entity string, id uint) {
	h.audit.Dispatch(audit.Event{
		UserID:   middleware.Actor(c).Ref(),
		Action:   action,
		Entity:   entity,
		EntityID: &id,
	})
}
