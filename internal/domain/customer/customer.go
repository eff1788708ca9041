package customer

import (
	"strings"

	"invoice-dashboard/internal/pkg/apperrors"
	"invoice-dashboard/internal/pkg/validation"
)

const (
	MsgInvalidData   = "Invalid data."
	MsgCreated       = "Customer created successfully!"
	MsgSaveImageFail = "Error saving image."
	MsgCreateFail    = "Failed to create customer."
	MsgUpdateFail    = "Failed to update customer."
	MsgDeleteFail    = "Failed to delete customer."
	MsgNotFound      = "Customer not found."
)

type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL *string
}

// Image is an uploaded file as received from the form.
type Image struct {
	Filename string
	Data     []byte
}

func (i *Image) Size() int {
	if i == nil {
		return 0
	}
	return len(i.Data)
}

// Input is the create/update form for a customer.
type Input struct {
	Name  string `form:"name" validate:"notblank"`
	Email string `form:"email" validate:"required,mailbox"`
	Image *Image `form:"image" validate:"-"`

	// ClearImage removes the stored image on update. Ignored when a new image
	// is uploaded in the same request.
	ClearImage bool `form:"clearImage" validate:"-"`
}

// HasImage reports whether a non-empty file was uploaded.
func (in Input) HasImage() bool {
	return in.Image.Size() > 0
}

var inputMessages = validation.Messages{
	"name": {
		"": "Name is required",
	},
	"email": {
		"required":            "Email is required",
		validation.TagMailbox: "Invalid email address",
	},
}

// ValidateInput checks every field of in and returns a validation error
// carrying all failing fields, or nil.
func ValidateInput(v *validation.Validator, in Input) error {
	fields := v.Struct(in, inputMessages)
	if fields.HasErrors() {
		return apperrors.NewFormValidationError(MsgInvalidData, fields)
	}
	return nil
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	return in
}
