package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	ucReport "github.com/BruksfildServices01/barbershop-booking/internal/usecase/report"
)

type ReportHandler struct {
	summaryUC *ucReport.ReservationSummary
}

func NewReportHandler(summaryUC *ucReport.ReservationSummary) *ReportHandler {
	return &ReportHandler{summaryUC: summaryUC}
}

// Summary reports reservation counts and revenue over ?from=&to= (slot dates).
func (h *ReportHandler) Summary(c *gin.Context) {
	out, err := h.summaryUC.Execute(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.FromError(c, err, "report_failed")
		return
	}

	httpresp.OK(c, out)
}
