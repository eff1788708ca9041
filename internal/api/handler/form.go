package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"invoice-dashboard/internal/domain/customer"
	"invoice-dashboard/internal/pkg/apperrors"
)

const (
	msgInvalidForm  = "Invalid form data."
	msgFormTooLarge = "Upload too large."
	multipartMemory = 1 << 20
	fieldImage      = "image"
	fieldClearImage = "clearImage"
	mimeMultipart   = "multipart/form-data"
	mimeURLEncoded  = "application/x-www-form-urlencoded"
)

// parseForm reads a multipart or urlencoded body, capped at maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: msgInvalidForm, Cause: fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)}
	}

	switch mediaType {
	case mimeMultipart:
		err = r.ParseMultipartForm(multipartMemory)
	case mimeURLEncoded:
		err = r.ParseForm()
	default:
		err = fmt.Errorf("unsupported content type %q", mediaType)
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &apperrors.AppError{Code: "PAYLOAD_TOO_LARGE", Message: msgFormTooLarge, Cause: fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)}
	}
	return &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: msgInvalidForm, Cause: fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)}
}

// formImage returns the uploaded image, or nil when the field is absent or
// the file is empty.
func formImage(r *http.Request) (*customer.Image, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(fieldImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: msgInvalidForm, Cause: fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: msgInvalidForm, Cause: fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &customer.Image{Filename: header.Filename, Data: data}, nil
}

// formBool accepts the values an HTML checkbox or a script would send.
func formBool(r *http.Request, field string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(field))) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
