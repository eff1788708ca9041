package handler

import (
	"log/slog"
	"net/http"

	"invoice-dashboard/internal/domain/report"
)

type ReportHandler struct {
	service report.Service
	logger  *slog.Logger
}

func NewReportHandler(s report.Service, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReportHandler{
		service: s,
		logger:  l.With("component", "ReportHandler"),
	}
}

// Query handles GET /query?type=invoices|customers[&amount=]
//
// @Summary Run a canned report
// @Description type=invoices lists invoices of the configured amount with the customer name. type=customers lists invoice totals per customer.
// @Tags Reports
// @Produce json
// @Param type query string true "invoices or customers"
// @Param amount query string false "Amount filter for type=invoices"
// @Success 200 {array} report.CustomerTotals "Report rows"
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing type"
// @Failure 500 {object} dto.ErrorResponse "Database failure"
// @Router /query [get]
// @Security BearerAuth
func (h *ReportHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := report.Query{
		Type:   r.URL.Query().Get("type"),
		Amount: r.URL.Query().Get("amount"),
	}

	rows, err := h.service.Run(r.Context(), q)
	if err != nil {
		h.logger.InfoContext(r.Context(), "Report query failed", slog.String("type", q.Type), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
