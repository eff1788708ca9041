// Package validation checks typed form inputs and reports every failing field
// at once, keyed by the field's form name.
package validation

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"

	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	TagMailbox        = "mailbox"
	TagPositiveAmount = "positive_amount"
	TagNotBlank       = "notblank"
)

var mailboxPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Messages maps a form field name to the message reported for each failing
// tag. The empty tag key is the fallback for that field.
type Messages map[string]map[string]string

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(TagMailbox, func(fl validator.FieldLevel) bool {
		return IsMailbox(fl.Field().String())
	})
	_ = v.RegisterValidation(TagPositiveAmount, func(fl validator.FieldLevel) bool {
		_, ok := ToCents(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation(TagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Struct validates s and returns the collected field errors, or nil when s is
// valid. Errors that are not field-level (bad input type) are reported under
// the "_" key.
func (v *Validator) Struct(s any, messages Messages) apperrors.FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := apperrors.FieldErrors{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields.Add("_", err.Error())
		return fields
	}

	for _, fe := range validationErrors {
		fields.Add(fe.Field(), messageFor(fe, messages))
	}
	return fields
}

func messageFor(fe validator.FieldError, messages Messages) string {
	if byTag, ok := messages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := byTag[""]; ok {
			return msg
		}
	}
	switch fe.Tag() {
	case "required", TagNotBlank:
		return "This field is required"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case TagMailbox:
		return "Invalid email address"
	case TagPositiveAmount:
		return "Must be an amount greater than 0"
	default:
		return "Invalid value"
	}
}

func IsMailbox(s string) bool {
	return mailboxPattern.MatchString(s)
}

// MaxAmountCents is the largest amount the invoices.amount integer column holds.
const MaxAmountCents = math.MaxInt32

var (
	minCents = decimal.NewFromInt(1)
	maxCents = decimal.NewFromInt(MaxAmountCents)
)

// ToCents parses a decimal currency string and converts it to whole cents,
// rounding half away from zero. ok is false when s is not a number or the
// result is outside [1, MaxAmountCents].
func ToCents(s string) (cents int64, ok bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	rounded := amount.Shift(2).Round(0)
	if rounded.LessThan(minCents) || rounded.GreaterThan(maxCents) {
		return 0, false
	}
	return rounded.IntPart(), true
}
