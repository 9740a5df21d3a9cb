package mocks

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/storefront-server/internal/model"
)

// PasswordHasher mocks model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

var _ model.PasswordHasher = (*PasswordHasher)(nil)

func (m *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(ctx context.Context, password, encoded string) (bool, error) {
	args := m.Called(ctx, password, encoded)
	return args.Bool(0), args.Error(1)
}

// IDGenerator mocks model.IDGenerator.
type IDGenerator struct {
	mock.Mock
}

var _ model.IDGenerator = (*IDGenerator)(nil)

func (m *IDGenerator) NewID() (uuid.UUID, error) {
	args := m.Called()
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

// Display mocks model.Display.
type Display struct {
	mock.Mock
}

var _ model.Display = (*Display)(nil)

func (m *Display) Refresh(ctx context.Context) {
	m.Called(ctx)
}

// TabTokenManager mocks model.TabTokenManager.
type TabTokenManager struct {
	mock.Mock
}

var _ model.TabTokenManager = (*TabTokenManager)(nil)

func (m *TabTokenManager) GenerateTabToken(tabID string) (string, error) {
	args := m.Called(tabID)
	return args.String(0), args.Error(1)
}

func (m *TabTokenManager) ParseTabToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// SecurityLayer mocks model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

var _ model.SecurityLayer = (*SecurityLayer)(nil)

// NewSecurityLayer creates a mock whose expectations are asserted on cleanup.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	ln, _ := args.Get(0).(net.Listener)
	return ln, args.Error(1)
}
