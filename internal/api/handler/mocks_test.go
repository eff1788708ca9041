package handler_test

import (
	"context"
	"io"
	"log/slog"

	"invoice-dashboard/internal/domain/customer"
	"invoice-dashboard/internal/domain/invoice"
	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/domain/report"

	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) Create(ctx context.Context, in customer.Input) (mutation.Result, error) {
	ret := _m.Called(ctx, in)
	return ret.Get(0).(mutation.Result), ret.Error(1)
}

func (_m *MockCustomerService) Update(ctx context.Context, id string, in customer.Input) (mutation.Result, error) {
	ret := _m.Called(ctx, id, in)
	return ret.Get(0).(mutation.Result), ret.Error(1)
}

func (_m *MockCustomerService) Delete(ctx context.Context, id string) (mutation.Result, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(mutation.Result), ret.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (_m *MockInvoiceService) Create(ctx context.Context, in invoice.Input) (mutation.Result, error) {
	ret := _m.Called(ctx, in)
	return ret.Get(0).(mutation.Result), ret.Error(1)
}

func (_m *MockInvoiceService) Update(ctx context.Context, id string, in invoice.Input) (mutation.Result, error) {
	ret := _m.Called(ctx, id, in)
	return ret.Get(0).(mutation.Result), ret.Error(1)
}

func (_m *MockInvoiceService) Delete(ctx context.Context, id string) (mutation.Result, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(mutation.Result), ret.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (_m *MockReportService) Run(ctx context.Context, q report.Query) (any, error) {
	ret := _m.Called(ctx, q)
	return ret.Get(0), ret.Error(1)
}

func (_m *MockReportService) InvoicesByAmount(ctx context.Context, amountCents int64) ([]report.InvoiceAmount, error) {
	ret := _m.Called(ctx, amountCents)
	rows, _ := ret.Get(0).([]report.InvoiceAmount)
	return rows, ret.Error(1)
}

func (_m *MockReportService) CustomerTotals(ctx context.Context) ([]report.CustomerTotals, error) {
	ret := _m.Called(ctx)
	rows, _ := ret.Get(0).([]report.CustomerTotals)
	return rows, ret.Error(1)
}
