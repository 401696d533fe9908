// Package pipeline sequences the bid-processing state machine: pull
// unresolved projects from storage, classify, extract, decide, submit,
// and persist each outcome exactly once per transition.
package pipeline

import (
	"context"

	"github.com/netly-dev/gobid/internal/domain"
)

// ProjectRepository is the storage surface the pipeline consumes.
type ProjectRepository interface {
	// ExistsByLink reports whether a project with the link is stored.
	ExistsByLink(ctx context.Context, link string) (bool, error)
	// CreateMany inserts drafts, silently skipping stored links, and
	// returns only the projects actually created.
	CreateMany(ctx context.Context, drafts []domain.ProjectDraft) ([]*domain.Project, error)
	// GetActiveProjects returns unresolved projects in insertion order.
	GetActiveProjects(ctx context.Context) ([]*domain.Project, error)
	// Update applies only the fields provided in the update.
	Update(ctx context.Context, id string, update domain.ProjectUpdate) error
}

// ListingExtractor turns a listing page into project drafts.
type ListingExtractor interface {
	Extract(ctx context.Context, page int) ([]domain.ProjectDraft, error)
}

// DetailExtractor reads a project's plain-text description.
type DetailExtractor interface {
	Extract(ctx context.Context, project *domain.Project) (string, error)
}

// StatusClassifier reads the terminal markers off a detail page.
type StatusClassifier interface {
	Classify(ctx context.Context, project *domain.Project) (domain.StatusSnapshot, error)
}

// DecisionEngine produces a bid decision from a description.
type DecisionEngine interface {
	Decide(ctx context.Context, description string) (domain.Decision, error)
}

// BidSubmitter performs one bid submission attempt.
type BidSubmitter interface {
	Submit(ctx context.Context, project *domain.Project, message string) (domain.SubmitResult, error)
}
