package testutils

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/netly-dev/gobid/internal/browser"
)

// MockDriver is a mock implementation of the browser driver.
type MockDriver struct {
	mock.Mock
}

// Load mocks a page navigation.
func (m *MockDriver) Load(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// Locate mocks a single element lookup.
func (m *MockDriver) Locate(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	args := m.Called(ctx, loc, timeout)
	if element, ok := args.Get(0).(browser.Element); ok {
		return element, args.Error(1)
	}
	return nil, args.Error(1)
}

// LocateAll mocks a multi-element lookup.
func (m *MockDriver) LocateAll(ctx context.Context, loc browser.Locator, timeout time.Duration) ([]browser.Element, error) {
	args := m.Called(ctx, loc, timeout)
	if elements, ok := args.Get(0).([]browser.Element); ok {
		return elements, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockElement is a mock implementation of a located page element.
type MockElement struct {
	mock.Mock
}

// Text mocks reading the element's visible text.
func (m *MockElement) Text(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// HTML mocks reading the element's inner markup.
func (m *MockElement) HTML(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Attribute mocks reading an attribute value.
func (m *MockElement) Attribute(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// Click mocks clicking the element.
func (m *MockElement) Click(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Clear mocks clearing an input's value.
func (m *MockElement) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Type mocks typing text into an input.
func (m *MockElement) Type(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// Find mocks a lookup scoped to this element.
func (m *MockElement) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	args := m.Called(ctx, loc)
	if element, ok := args.Get(0).(browser.Element); ok {
		return element, args.Error(1)
	}
	return nil, args.Error(1)
}
