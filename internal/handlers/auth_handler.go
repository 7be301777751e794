package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type AuthHandler struct {
	repo        booking.Repository
	audit       *audit.Dispatcher
	secret      string
	ttl         time.Duration
	emailDomain func(email string) bool
}

// NewAuthHandler builds the handler. emailDomain may be nil to accept every
// syntactically valid address.
func NewAuthHandler(
	repo booking.Repository,
	audit *audit.Dispatcher,
	secret string,
	ttl time.Duration,
	emailDomain func(email string) bool,
) *AuthHandler {
	if emailDomain == nil {
		emailDomain = func(string) bool { return true }
	}
	return &AuthHandler{
		repo:        repo,
		audit:       audit,
		secret:      secret,
		ttl:         ttl,
		emailDomain: emailDomain,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a customer account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, ok := h.createUser(c, req, models.RoleCustomer)
	if !ok {
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

// CreateCashier lets an admin open a staff account.
func (h *AuthHandler) CreateCashier(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, ok := h.createUser(c, req, models.RoleCashier)
	if !ok {
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.Actor(c).Ref(),
		Action:   "cashier_created",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"user": userView(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load user.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if !user.IsActive {
		httperr.Forbidden(c, "account_disabled", "Account is disabled.")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.repo.GetUser(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// --------- Helpers ---------

func (h *AuthHandler) createUser(c *gin.Context, req RegisterRequest, role string) (*models.User, bool) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return nil, false
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not store password.")
		return nil, false
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}

	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, booking.ErrDuplicate) {
			httperr.Write(c, http.StatusConflict, "email_already_registered", "Email is already registered.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_create_user", "Could not create user.")
		return nil, false
	}
	return user, true
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(h.ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}
