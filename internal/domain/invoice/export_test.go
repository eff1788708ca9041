package invoice

import (
	"context"
	"time"

	"invoice-dashboard/internal/domain/mutation"

	"github.com/stretchr/testify/mock"
)

// SetClock pins the date assigned to new invoices.
func SetClock(s Service, now func() time.Time) {
	s.(*invoiceService).now = now
}

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Insert(ctx context.Context, inv *Invoice) error {
	ret := _m.Called(ctx, inv)
	return ret.Error(0)
}

func (_m *MockRepository) Update(ctx context.Context, inv *Invoice) error {
	ret := _m.Called(ctx, inv)
	return ret.Error(0)
}

func (_m *MockRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (_m *MockInvalidator) Invalidate(ctx context.Context, paths ...string) error {
	ret := _m.Called(ctx, paths)
	return ret.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) Publish(ctx context.Context, evt mutation.Event) error {
	ret := _m.Called(ctx, evt)
	return ret.Error(0)
}
