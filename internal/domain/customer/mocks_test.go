package customer

import (
	"context"

	"invoice-dashboard/internal/domain/mutation"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Insert(ctx context.Context, c *Customer) error {
	ret := _m.Called(ctx, c)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, c)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) Update(ctx context.Context, c *Customer, clearImage bool) error {
	ret := _m.Called(ctx, c, clearImage)
	return ret.Error(0)
}

func (_m *MockRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

type MockAssetStore struct {
	mock.Mock
}

func (_m *MockAssetStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	ret := _m.Called(ctx, filename, data)
	return ret.String(0), ret.Error(1)
}

func (_m *MockAssetStore) Remove(ctx context.Context, ref string) error {
	ret := _m.Called(ctx, ref)
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
