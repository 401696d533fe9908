package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
)

// Error types for the database package.
var (
	// ErrProjectNotFound is returned when the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrConflictingUpdate is returned when an update would mark a
	// project as both placed and skipped.
	ErrConflictingUpdate = errors.New("project cannot be both placed and skipped")
)

// ProjectRepository handles database operations for projects.
type ProjectRepository struct {
	db     *sqlx.DB
	logger logger.Interface
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sqlx.DB, log logger.Interface) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: log.WithComponent("project_repository"),
	}
}

// ExistsByLink reports whether a project with the given link is stored.
func (r *ProjectRepository) ExistsByLink(ctx context.Context, link string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM projects WHERE link = $1)`

	if err := r.db.GetContext(ctx, &exists, query, link); err != nil {
		return false, fmt.Errorf("failed to check project existence: %w", err)
	}

	return exists, nil
}

// GetByID retrieves a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	query := `
		SELECT id, marketplace, title, link, price, currency,
		       bid_message, is_bid_placed, is_bid_skipped, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// GetByLink retrieves a project by its link.
func (r *ProjectRepository) GetByLink(ctx context.Context, link string) (*domain.Project, error) {
	var project domain.Project
	query := `
		SELECT id, marketplace, title, link, price, currency,
		       bid_message, is_bid_placed, is_bid_skipped, created_at, updated_at
		FROM projects
		WHERE link = $1
	`

	err := r.db.GetContext(ctx, &project, query, link)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, link)
		}
		return nil, fmt.Errorf("failed to get project by link: %w", err)
	}

	return &project, nil
}

// GetActiveProjects retrieves projects with no bid placed and not
// skipped, in insertion order. This is the sole query used to select
// work.
func (r *ProjectRepository) GetActiveProjects(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	query := `
		SELECT id, marketplace, title, link, price, currency,
		       bid_message, is_bid_placed, is_bid_skipped, created_at, updated_at
		FROM projects
		WHERE is_bid_placed = FALSE AND is_bid_skipped = FALSE
		ORDER BY created_at, id
	`

	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("failed to get active projects: %w", err)
	}

	if projects == nil {
		projects = []*domain.Project{}
	}

	return projects, nil
}

// CreateMany inserts the given drafts, silently skipping any whose
// link is already stored. Returns only the projects actually created.
func (r *ProjectRepository) CreateMany(ctx context.Context, drafts []domain.ProjectDraft) ([]*domain.Project, error) {
	query := `
		INSERT INTO projects (id, marketplace, title, link, price, currency,
		                      is_bid_placed, is_bid_skipped, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, FALSE, $7, $7)
		ON CONFLICT (link) DO NOTHING
	`

	// The batch shares one created_at; the time-ordered v7 ids break
	// the tie, so ordering by (created_at, id) is insertion order.
	now := time.Now().UTC()

	created := make([]*domain.Project, 0, len(drafts))
	for i := range drafts {
		draft := &drafts[i]
		id, err := uuid.NewV7()
		if err != nil {
			return created, fmt.Errorf("failed to generate project id: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query,
			id.String(), draft.Marketplace, draft.Title, draft.Link,
			draft.Price, draft.Currency, now,
		)
		if err != nil {
			return created, fmt.Errorf("failed to create project %s: %w", draft.Link, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("failed to read insert result: %w", err)
		}
		if rows == 0 {
			r.logger.Debug("Project already exists, skipping", "link", draft.Link)
			continue
		}

		created = append(created, &domain.Project{
			ID:          id.String(),
			Marketplace: draft.Marketplace,
			Title:       draft.Title,
			Link:        draft.Link,
			Price:       draft.Price,
			Currency:    draft.Currency,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	r.logger.Info("Created projects",
		"created", len(created),
		"skipped", len(drafts)-len(created))

	return created, nil
}

// Update applies only the fields explicitly provided in the update,
// leaving all others untouched.
func (r *ProjectRepository) Update(ctx context.Context, id string, update domain.ProjectUpdate) error {
	if update.IsBidPlaced != nil && update.IsBidSkipped != nil &&
		*update.IsBidPlaced && *update.IsBidSkipped {
		return ErrConflictingUpdate
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if update.BidMessage != nil {
		args = append(args, *update.BidMessage)
		set = append(set, fmt.Sprintf("bid_message = $%d", len(args)))
	}
	if update.IsBidPlaced != nil {
		args = append(args, *update.IsBidPlaced)
		set = append(set, fmt.Sprintf("is_bid_placed = $%d", len(args)))
	}
	if update.IsBidSkipped != nil {
		args = append(args, *update.IsBidSkipped)
		set = append(set, fmt.Sprintf("is_bid_skipped = $%d", len(args)))
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, time.Now().UTC())
	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}

	r.logger.Debug("Updated project", "id", id)
	return nil
}

// Delete removes a project. The pipeline never deletes; this is a
// maintenance operation.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}

	return nil
}

// GetAll retrieves every stored project in insertion order.
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	query := `
		SELECT id, marketplace, title, link, price, currency,
		       bid_message, is_bid_placed, is_bid_skipped, created_at, updated_at
		FROM projects
		ORDER BY created_at, id
	`

	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if projects == nil {
		projects = []*domain.Project{}
	}

	return projects, nil
}
