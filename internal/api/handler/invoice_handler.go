package handler

import (
	"log/slog"
	"net/http"

	"invoice-dashboard/internal/domain/invoice"

	"github.com/go-chi/chi/v5"
)

type InvoiceHandler struct {
	service invoice.Service
	logger  *slog.Logger
}

func NewInvoiceHandler(s invoice.Service, l *slog.Logger) *InvoiceHandler {
	if s == nil {
		panic("invoice service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &InvoiceHandler{
		service: s,
		logger:  l.With("component", "InvoiceHandler"),
	}
}

// invoiceFormBytes caps invoice bodies, which never carry files.
const invoiceFormBytes = 64 << 10

func (h *InvoiceHandler) decodeInput(w http.ResponseWriter, r *http.Request) (invoice.Input, error) {
	if err := parseForm(w, r, invoiceFormBytes); err != nil {
		return invoice.Input{}, err
	}
	return invoice.Input{
		CustomerID: r.FormValue("customerId"),
		Amount:     r.FormValue("amount"),
		Status:     r.FormValue("status"),
	}, nil
}

// CreateInvoice handles POST /invoices
//
// @Summary Create an invoice
// @Tags Invoices
// @Accept x-www-form-urlencoded
// @Produce json
// @Param customerId formData string true "Customer ID"
// @Param amount formData string true "Amount in dollars"
// @Param status formData string true "pending or paid"
// @Success 303 {object} dto.FormState "Redirect to the invoice listing"
// @Failure 422 {object} dto.FormState "Field errors"
// @Failure 500 {object} dto.FormState "Database failure"
// @Router /invoices [post]
// @Security BearerAuth
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode invoice form", slog.Any("error", err))
		respondFormError(w, err)
		return
	}

	res, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondFormError(w, err)
		return
	}
	respondResult(w, http.StatusCreated, res)
}

// UpdateInvoice handles PUT /invoices/{invoiceID}
//
// @Summary Update an invoice
// @Tags Invoices
// @Accept x-www-form-urlencoded
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Param customerId formData string true "Customer ID"
// @Param amount formData string true "Amount in dollars"
// @Param status formData string true "pending or paid"
// @Success 303 {object} dto.FormState "Redirect to the invoice listing"
// @Failure 404 {object} dto.FormState "Invoice not found"
// @Failure 422 {object} dto.FormState "Field errors"
// @Failure 500 {object} dto.FormState "Database failure"
// @Router /invoices/{invoiceID} [put]
// @Security BearerAuth
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")
	in, err := h.decodeInput(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode invoice form", slog.String("invoiceID", id), slog.Any("error", err))
		respondFormError(w, err)
		return
	}

	res, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		respondFormError(w, err)
		return
	}
	respondResult(w, http.StatusOK, res)
}

// DeleteInvoice handles DELETE /invoices/{invoiceID}
//
// @Summary Delete an invoice
// @Tags Invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Success 303 {object} dto.FormState "Redirect to the invoice listing"
// @Failure 500 {object} dto.FormState "Database failure"
// @Router /invoices/{invoiceID} [delete]
// @Security BearerAuth
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Delete(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		respondFormError(w, err)
		return
	}
	respondResult(w, http.StatusOK, res)
}
