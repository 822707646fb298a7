package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
)

// MockEventBus mocks providers.EventBus
type MockEventBus struct{ mock.Mock }

var _ providers.EventBus = (*MockEventBus)(nil)

func NewMockEventBus(t T) *MockEventBus {
	m := &MockEventBus{}
	register(t, &m.Mock)
	return m
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.VendorEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.VendorEvent, error) {
	args := m.Called(ctx, channel)
	ch, _ := args.Get(0).(<-chan *entities.VendorEvent)
	if ch == nil {
		if bidi, ok := args.Get(0).(chan *entities.VendorEvent); ok {
			ch = bidi
		}
	}
	return ch, args.Error(1)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}

// MockTokenProvider mocks providers.TokenProvider
type MockTokenProvider struct{ mock.Mock }

var _ providers.TokenProvider = (*MockTokenProvider)(nil)

func NewMockTokenProvider(t T) *MockTokenProvider {
	m := &MockTokenProvider{}
	register(t, &m.Mock)
	return m
}

func (m *MockTokenProvider) Issue(identity entities.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenProvider) Verify(token string) (entities.Identity, error) {
	args := m.Called(token)
	id, _ := args.Get(0).(entities.Identity)
	return id, args.Error(1)
}

// MockImageStore mocks providers.ImageStore
type MockImageStore struct{ mock.Mock }

var _ providers.ImageStore = (*MockImageStore)(nil)

func NewMockImageStore(t T) *MockImageStore {
	m := &MockImageStore{}
	register(t, &m.Mock)
	return m
}

func (m *MockImageStore) Save(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

// MockCacheProvider mocks providers.CacheProvider
type MockCacheProvider struct{ mock.Mock }

var _ providers.CacheProvider = (*MockCacheProvider)(nil)

func NewMockCacheProvider(t T) *MockCacheProvider {
	m := &MockCacheProvider{}
	register(t, &m.Mock)
	return m
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return m.Called(ctx, key, value, expirationSeconds).Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}
