package handler

import (
	"log/slog"
	"net/http"

	"invoice-dashboard/internal/domain/customer"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service        customer.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewCustomerHandler(s customer.Service, maxUploadBytes int64, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service:        s,
		maxUploadBytes: maxUploadBytes,
		logger:         l.With("component", "CustomerHandler"),
	}
}

func (h *CustomerHandler) decodeInput(w http.ResponseWriter, r *http.Request) (customer.Input, error) {
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		return customer.Input{}, err
	}
	image, err := formImage(r)
	if err != nil {
		return customer.Input{}, err
	}
	return customer.Input{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Image:      image,
		ClearImage: formBool(r, fieldClearImage),
	}, nil
}

// CreateCustomer handles POST /customers
//
// @Summary Create a customer
// @Description Validates the form, stores the optional image and inserts the customer.
// @Tags Customers
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Customer name"
// @Param email formData string true "Customer email"
// @Param image formData file false "Customer image"
// @Success 201 {object} dto.FormState "Customer created"
// @Failure 413 {object} dto.FormState "Upload too large"
// @Failure 422 {object} dto.FormState "Field errors"
// @Failure 500 {object} dto.FormState "Image or database failure"
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode customer form", slog.Any("error", err))
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

// UpdateCustomer handles PUT /customers/{customerID}
//
// @Summary Update a customer
// @Tags Customers
// @Accept multipart/form-data
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param name formData string true "Customer name"
// @Param email formData string true "Customer email"
// @Param image formData file false "Replacement image"
// @Param clearImage formData bool false "Remove the stored image"
// @Success 303 {object} dto.FormState "Redirect to the customer listing"
// @Failure 404 {object} dto.FormState "Customer not found"
// @Failure 422 {object} dto.FormState "Field errors"
// @Failure 500 {object} dto.FormState "Image or database failure"
// @Router /customers/{customerID} [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "customerID")
	in, err := h.decodeInput(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode customer form", slog.String("customerID", id), slog.Any("error", err))
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

// DeleteCustomer handles DELETE /customers/{customerID}
//
// @Summary Delete a customer
// @Tags Customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 303 {object} dto.FormState "Redirect to the customer listing"
// @Failure 500 {object} dto.FormState "Database failure"
// @Router /customers/{customerID} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Delete(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		respondFormError(w, err)
		return
	}
	respondResult(w, http.StatusOK, res)
}
