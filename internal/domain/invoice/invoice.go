package invoice

import (
	"strings"
	"time"

	"invoice-dashboard/internal/pkg/apperrors"
	"invoice-dashboard/internal/pkg/validation"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

const DateLayout = "2006-01-02"

const (
	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."
	MsgCreateFail          = "Database Error: Failed to Create Invoice."
	MsgUpdateFail          = "Database Error: Failed to Update Invoice."
	MsgDeleteFail          = "Database Error: Failed to Delete Invoice."
	MsgNotFound            = "Invoice not found."
)

// Invoice is the persisted form. Amount is in cents.
type Invoice struct {
	ID         string
	CustomerID string
	Amount     int64
	Status     Status
	Date       string
}

// Input is the create/update form for an invoice. Amount is the decimal
// string as submitted.
type Input struct {
	CustomerID string `form:"customerId" validate:"notblank"`
	Amount     string `form:"amount" validate:"positive_amount"`
	Status     string `form:"status" validate:"oneof=pending paid"`
}

var inputMessages = validation.Messages{
	"customerId": {"": "Please select a customer."},
	"amount":     {"": "Please enter an amount greater than $0."},
	"status":     {"": "Please select an invoice status."},
}

// ValidateInput checks every field of in. rejectMsg is the summary message
// attached to the returned validation error.
func ValidateInput(v *validation.Validator, in Input, rejectMsg string) error {
	fields := v.Struct(in, inputMessages)
	if fields.HasErrors() {
		return apperrors.NewFormValidationError(rejectMsg, fields)
	}
	return nil
}

// ToRecord converts a validated input to the persisted shape. ok is false if
// the amount does not convert to at least one cent.
func ToRecord(in Input) (Invoice, bool) {
	cents, ok := validation.ToCents(in.Amount)
	if !ok {
		return Invoice{}, false
	}
	return Invoice{
		CustomerID: strings.TrimSpace(in.CustomerID),
		Amount:     cents,
		Status:     Status(in.Status),
	}, true
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}
