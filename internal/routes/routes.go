package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/handlers"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/payment"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	ucPayment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/payment"
	ucReport "github.com/BruksfildServices01/barbershop-booking/internal/usecase/report"
	ucReservation "github.com/BruksfildServices01/barbershop-booking/internal/usecase/reservation"
	ucSchedule "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

// Deps carries the singletons built in main.
type Deps struct {
	Config   *config.Config
	Repo     booking.Repository
	Audit    *audit.Dispatcher
	Clock    timezone.Clock
	Uploader storage.Uploader
	Gateway  payment.Gateway

	// EmailDomain checks the domain of new accounts; nil accepts all.
	EmailDomain func(email string) bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// USE CASES: SCHEDULE
	// ======================================================
	generateSlotsUC := ucSchedule.NewGenerateSlots(d.Repo, d.Audit, d.Clock)
	createSlotUC := ucSchedule.NewCreateSlot(d.Repo, d.Audit, d.Clock)
	toggleSlotUC := ucSchedule.NewToggleSlot(d.Repo, d.Audit, d.Clock)
	availabilityUC := ucSchedule.NewListAvailability(d.Repo, d.Clock)

	// ======================================================
	// USE CASES: RESERVATIONS
	// ======================================================
	createReservationUC := ucReservation.NewCreateReservation(d.Repo, d.Audit, d.Clock)
	walkInUC := ucReservation.NewCreateWalkIn(d.Repo, d.Audit, d.Clock)
	getReservationUC := ucReservation.NewGetReservation(d.Repo)
	listReservationsUC := ucReservation.NewListReservations(d.Repo)
	confirmUC := ucReservation.NewConfirmReservation(d.Repo, d.Audit, d.Clock)
	startUC := ucReservation.NewStartReservation(d.Repo, d.Audit, d.Clock)
	completeUC := ucReservation.NewCompleteReservation(d.Repo, d.Audit, d.Clock)
	cancelUC := ucReservation.NewCancelReservation(d.Repo, d.Audit, d.Clock)

	// ======================================================
	// USE CASES: PAYMENTS & REPORTS
	// ======================================================
	uploadProofUC := ucPayment.NewUploadProof(d.Repo, d.Uploader, d.Audit, d.Clock)
	verifyPaymentUC := ucPayment.NewVerifyPayment(d.Repo, d.Audit, d.Clock)
	rejectPaymentUC := ucPayment.NewRejectPayment(d.Repo, d.Audit, d.Clock)
	syncPaymentUC := ucPayment.NewSyncFromGateway(d.Repo, d.Gateway, verifyPaymentUC, rejectPaymentUC)

	summaryUC := ucReport.NewReservationSummary(d.Repo, d.Clock)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Repo, d.Audit, d.Config.JWTSecret, d.Config.JWTTTL, d.EmailDomain)
	directoryHandler := handlers.NewDirectoryHandler(d.Repo, d.Audit)
	scheduleHandler := handlers.NewScheduleHandler(generateSlotsUC, createSlotUC, toggleSlotUC, availabilityUC)
	reservationHandler := handlers.NewReservationHandler(
		createReservationUC,
		walkInUC,
		getReservationUC,
		listReservationsUC,
		confirmUC,
		startUC,
		completeUC,
		cancelUC,
	)
	paymentHandler := handlers.NewPaymentHandler(uploadProofUC, verifyPaymentUC, rejectPaymentUC, syncPaymentUC)
	reportHandler := handlers.NewReportHandler(summaryUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Repo)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/barbers", directoryHandler.ListBarbers)
		api.GET("/packages", directoryHandler.ListPackages)
		api.GET("/barbers/:id/availability", scheduleHandler.Availability)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.GET("/me", authHandler.Me)

			secured.POST("/reservations", reservationHandler.Create)
			secured.GET("/reservations", reservationHandler.List)
			secured.GET("/reservations/:id", reservationHandler.Get)
			secured.PATCH("/reservations/:id/cancel", reservationHandler.Cancel)
			secured.POST("/reservations/:id/payment-proof", paymentHandler.UploadProof)

			// ------------------------------
			// STAFF
			// ------------------------------
			staff := secured.Group("/")
			staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleCashier))
			{
				staff.POST("/reservations/walk-in", reservationHandler.CreateWalkIn)
				staff.PATCH("/reservations/:id/confirm", reservationHandler.Confirm)
				staff.PATCH("/reservations/:id/start", reservationHandler.Start)
				staff.PATCH("/reservations/:id/complete", reservationHandler.Complete)

				staff.PATCH("/payments/:id/verify", paymentHandler.Verify)
				staff.PATCH("/payments/:id/reject", paymentHandler.Reject)
				staff.POST("/payments/:id/sync", paymentHandler.Sync)

				staff.PATCH("/slots/:id", scheduleHandler.Toggle)
				staff.GET("/reports/summary", reportHandler.Summary)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/cashiers", authHandler.CreateCashier)

				admin.GET("/barbers", directoryHandler.ListBarbers)
				admin.POST("/barbers", directoryHandler.CreateBarber)
				admin.PUT("/barbers/:id", directoryHandler.UpdateBarber)

				admin.GET("/packages", directoryHandler.ListPackages)
				admin.POST("/packages", directoryHandler.CreatePackage)
				admin.PUT("/packages/:id", directoryHandler.UpdatePackage)

				admin.POST("/slots/generate", scheduleHandler.Generate)
				admin.POST("/slots", scheduleHandler.Create)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
