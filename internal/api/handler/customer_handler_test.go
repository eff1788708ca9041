package handler_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"invoice-dashboard/internal/api/handler"
	"invoice-dashboard/internal/domain/customer"
	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func customerRouter(svc *MockCustomerService, maxUpload int64) http.Handler {
	h := handler.NewCustomerHandler(svc, maxUpload, testLogger)
	r := chi.NewRouter()
	r.Post("/customers", h.CreateCustomer)
	r.Put("/customers/{customerID}", h.UpdateCustomer)
	r.Delete("/customers/{customerID}", h.DeleteCustomer)
	return r
}

type filePart struct {
	name string
	data []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", file.name)
		require.NoError(t, err)
		_, err = fw.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func urlencodedRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCustomerHandler_CreateRendersMessage(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in customer.Input) bool {
		return in.Name == "Amy" && in.Email == "amy@x.io" &&
			in.Image != nil && in.Image.Filename == "a.png" && string(in.Image.Data) == "png"
	})).Return(mutation.Rendered(customer.MsgCreated), nil).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/customers",
		map[string]string{"name": "Amy", "email": "amy@x.io"}, &filePart{"a.png", []byte("png")}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Customer created successfully!"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestCustomerHandler_CreateWithoutImage(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Create", mock.Anything, customer.Input{Name: "Amy", Email: "amy@x.io"}).
		Return(mutation.Rendered(customer.MsgCreated), nil).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, urlencodedRequest(http.MethodPost, "/customers",
		url.Values{"name": {"Amy"}, "email": {"amy@x.io"}}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_EmptyFileIsNoImage(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Create", mock.Anything, customer.Input{Name: "Amy", Email: "amy@x.io"}).
		Return(mutation.Rendered(customer.MsgCreated), nil).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/customers",
		map[string]string{"name": "Amy", "email": "amy@x.io"}, &filePart{"", nil}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_ValidationErrors(t *testing.T) {
	svc := new(MockCustomerService)
	fields := apperrors.FieldErrors{"name": {"Name is required"}, "email": {"Invalid email address"}}
	svc.On("Create", mock.Anything, mock.Anything).
		Return(mutation.Result{}, apperrors.NewFormValidationError(customer.MsgInvalidData, fields)).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, urlencodedRequest(http.MethodPost, "/customers",
		url.Values{"name": {" "}, "email": {"nope"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"name":["Name is required"],"email":["Invalid email address"]},"message":"Invalid data."}`, rec.Body.String())
}

func TestCustomerHandler_StorageFailureIsGeneric(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Create", mock.Anything, mock.Anything).
		Return(mutation.Result{}, apperrors.WrapStorageError(errors.New("disk full at /var/public"), customer.MsgSaveImageFail)).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, urlencodedRequest(http.MethodPost, "/customers",
		url.Values{"name": {"Amy"}, "email": {"amy@x.io"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Error saving image."}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestCustomerHandler_UpdateRedirects(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Update", mock.Anything, "c-1", customer.Input{Name: "Amy", Email: "amy@x.io", ClearImage: true}).
		Return(mutation.Redirect(mutation.CustomersPath), nil).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, multipartRequest(t, http.MethodPut, "/customers/c-1",
		map[string]string{"name": "Amy", "email": "amy@x.io", "clearImage": "on"}, nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, mutation.CustomersPath, rec.Header().Get("Location"))
	assert.JSONEq(t, `{"redirect":"/dashboard/customers"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestCustomerHandler_UpdateNotFound(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Update", mock.Anything, "missing", mock.Anything).
		Return(mutation.Result{}, &apperrors.AppError{Code: "NOT_FOUND", Message: customer.MsgNotFound, Cause: apperrors.ErrNotFound}).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 1<<20).ServeHTTP(rec, urlencodedRequest(http.MethodPut, "/customers/missing",
		url.Values{"name": {"Amy"}, "email": {"amy@x.io"}}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Customer not found."}`, rec.Body.String())
}

func TestCustomerHandler_Delete(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("Delete", mock.Anything, "c-1").Return(mutation.Redirect(mutation.CustomersPath), nil).Once()
	svc.On("Delete", mock.Anything, "c-2").
		Return(mutation.Result{}, apperrors.WrapDatabaseError(errors.New("conn reset"), customer.MsgDeleteFail)).Once()

	rec := httptest.NewRecorder()
	customerRouter(svc, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/customers/c-1", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, mutation.CustomersPath, rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	customerRouter(svc, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/customers/c-2", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to delete customer."}`, rec.Body.String())
}

func TestCustomerHandler_RejectsBadBodies(t *testing.T) {
	svc := new(MockCustomerService)

	t.Run("unsupported content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":"Amy"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		customerRouter(svc, 1<<20).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"Invalid form data."}`, rec.Body.String())
	})

	t.Run("upload over the limit", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/customers",
			map[string]string{"name": "Amy", "email": "amy@x.io"}, &filePart{"big.png", bytes.Repeat([]byte("x"), 4096)})
		rec := httptest.NewRecorder()
		customerRouter(svc, 1024).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.JSONEq(t, `{"message":"Upload too large."}`, rec.Body.String())
	})

	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNewCustomerHandler_Panics(t *testing.T) {
	assert.Panics(t, func() { handler.NewCustomerHandler(nil, 0, testLogger) })
	assert.Panics(t, func() { handler.NewCustomerHandler(new(MockCustomerService), 0, nil) })
}
