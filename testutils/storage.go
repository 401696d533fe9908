// Package testutils provides shared testing utilities across the application.
package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/netly-dev/gobid/internal/domain"
)

// MockProjectRepository is a mock implementation of the project
// repository consumed by the pipeline.
type MockProjectRepository struct {
	mock.Mock
}

// ExistsByLink reports whether a project with the link is stored.
func (m *MockProjectRepository) ExistsByLink(ctx context.Context, link string) (bool, error) {
	args := m.Called(ctx, link)
	return args.Bool(0), args.Error(1)
}

// CreateMany inserts drafts and returns the projects actually created.
func (m *MockProjectRepository) CreateMany(ctx context.Context, drafts []domain.ProjectDraft) ([]*domain.Project, error) {
	args := m.Called(ctx, drafts)
	if projects, ok := args.Get(0).([]*domain.Project); ok {
		return projects, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetActiveProjects returns unresolved projects in insertion order.
func (m *MockProjectRepository) GetActiveProjects(ctx context.Context) ([]*domain.Project, error) {
	args := m.Called(ctx)
	if projects, ok := args.Get(0).([]*domain.Project); ok {
		return projects, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update applies a partial update to a stored project.
func (m *MockProjectRepository) Update(ctx context.Context, id string, update domain.ProjectUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}
