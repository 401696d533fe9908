package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/netly-dev/gobid/internal/domain"
)

// MockListingExtractor is a mock implementation of the listing
// extractor consumed by the pipeline.
type MockListingExtractor struct {
	mock.Mock
}

// Extract returns the scripted drafts for a listing page.
func (m *MockListingExtractor) Extract(ctx context.Context, page int) ([]domain.ProjectDraft, error) {
	args := m.Called(ctx, page)
	if drafts, ok := args.Get(0).([]domain.ProjectDraft); ok {
		return drafts, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockDetailExtractor is a mock implementation of the detail extractor.
type MockDetailExtractor struct {
	mock.Mock
}

// Extract returns the scripted description for a project.
func (m *MockDetailExtractor) Extract(ctx context.Context, project *domain.Project) (string, error) {
	args := m.Called(ctx, project)
	return args.String(0), args.Error(1)
}

// MockStatusClassifier is a mock implementation of the status
// classifier.
type MockStatusClassifier struct {
	mock.Mock
}

// Classify returns the scripted status snapshot for a project.
func (m *MockStatusClassifier) Classify(ctx context.Context, project *domain.Project) (domain.StatusSnapshot, error) {
	args := m.Called(ctx, project)
	if status, ok := args.Get(0).(domain.StatusSnapshot); ok {
		return status, args.Error(1)
	}
	return domain.StatusSnapshot{}, args.Error(1)
}

// MockDecisionEngine is a mock implementation of the decision engine.
type MockDecisionEngine struct {
	mock.Mock
}

// Decide returns the scripted decision for a description.
func (m *MockDecisionEngine) Decide(ctx context.Context, description string) (domain.Decision, error) {
	args := m.Called(ctx, description)
	if decision, ok := args.Get(0).(domain.Decision); ok {
		return decision, args.Error(1)
	}
	return domain.Decision{}, args.Error(1)
}

// MockBidSubmitter is a mock implementation of the bid submitter.
type MockBidSubmitter struct {
	mock.Mock
}

// Submit returns the scripted submission result.
func (m *MockBidSubmitter) Submit(ctx context.Context, project *domain.Project, message string) (domain.SubmitResult, error) {
	args := m.Called(ctx, project, message)
	if result, ok := args.Get(0).(domain.SubmitResult); ok {
		return result, args.Error(1)
	}
	return domain.SubmitResult{}, args.Error(1)
}
