package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	ucPayment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/payment"
)

// MaxProofSize bounds the uploaded proof before it is decoded.
const MaxProofSize = 5 << 20

type PaymentHandler struct {
	uploadUC *ucPayment.UploadProof
	verifyUC *ucPayment.VerifyPayment
	rejectUC *ucPayment.RejectPayment
	syncUC   *ucPayment.SyncFromGateway
}

func NewPaymentHandler(
	uploadUC *ucPayment.UploadProof,
	verifyUC *ucPayment.VerifyPayment,
	rejectUC *ucPayment.RejectPayment,
	syncUC *ucPayment.SyncFromGateway,
) *PaymentHandler {
	return &PaymentHandler{
		uploadUC: uploadUC,
		verifyUC: verifyUC,
		rejectUC: rejectUC,
		syncUC:   syncUC,
	}
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// UploadProof accepts a multipart form with a "proof" image and an optional
// "external_id" referencing a gateway payment.
func (h *PaymentHandler) UploadProof(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("proof")
	if err != nil {
		httperr.BadRequest(c, "missing_proof", "Form field 'proof' is required.")
		return
	}
	if file.Size > MaxProofSize {
		httperr.Write(c, http.StatusRequestEntityTooLarge, "proof_too_large", "Proof image is too large.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_proof", "Could not read proof.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxProofSize+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_proof", "Could not read proof.")
		return
	}

	pay, err := h.uploadUC.Execute(c.Request.Context(), ucPayment.UploadProofInput{
		ReservationID: id,
		Actor:         middleware.Actor(c),
		Image:         data,
		ExternalID:    c.PostForm("external_id"),
	})
	if err != nil {
		httperr.FromError(c, err, "upload_proof_failed")
		return
	}

	httpresp.Created(c, pay)
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pay, err := h.verifyUC.Execute(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.FromError(c, err, "verify_payment_failed")
		return
	}

	httpresp.OK(c, pay)
}

func (h *PaymentHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	pay, err := h.rejectUC.Execute(c.Request.Context(), id, middleware.Actor(c), req.Reason)
	if err != nil {
		httperr.FromError(c, err, "reject_payment_failed")
		return
	}

	httpresp.OK(c, pay)
}

// Sync pulls the payment status from the gateway and applies it.
func (h *PaymentHandler) Sync(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pay, err := h.syncUC.Execute(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.FromError(c, err, "sync_payment_failed")
		return
	}

	httpresp.OK(c, pay)
}
