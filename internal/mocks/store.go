// Package mocks holds testify mocks of the model interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/storefront-server/internal/model"
)

// TabStore mocks model.TabStore (and therefore model.Store).
type TabStore struct {
	mock.Mock
}

var _ model.TabStore = (*TabStore)(nil)

func (m *TabStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *TabStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *TabStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Update calls fn with the current value given by the second and third
// return values when the mock is set up with Return(err, current, ok).
func (m *TabStore) Update(ctx context.Context, key string, fn model.UpdateFunc) error {
	args := m.Called(ctx, key, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	if len(args) < 3 {
		return nil
	}
	_, err := fn(args.String(1), args.Bool(2))
	return err
}

func (m *TabStore) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *TabStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ObjectStorage mocks model.ObjectStorage.
type ObjectStorage struct {
	mock.Mock
}

var _ model.ObjectStorage = (*ObjectStorage)(nil)

func (m *ObjectStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *ObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *ObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
