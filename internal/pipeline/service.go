package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
)

// Summary aggregates the outcomes of one processing run.
type Summary struct {
	Processed  int
	Placed     int
	Skipped    int
	LeftActive int
}

// ProjectService drives projects through discovery and bidding.
type ProjectService struct {
	repo       ProjectRepository
	listings   ListingExtractor
	details    DetailExtractor
	classifier StatusClassifier
	engine     DecisionEngine
	submitter  BidSubmitter
	logger     logger.Interface
}

// NewProjectService wires the pipeline from its collaborators.
func NewProjectService(
	repo ProjectRepository,
	listings ListingExtractor,
	details DetailExtractor,
	classifier StatusClassifier,
	engine DecisionEngine,
	submitter BidSubmitter,
	log logger.Interface,
) *ProjectService {
	return &ProjectService{
		repo:       repo,
		listings:   listings,
		details:    details,
		classifier: classifier,
		engine:     engine,
		submitter:  submitter,
		logger:     log.WithComponent("pipeline"),
	}
}

// ScrapeAndSaveProjects scrapes one listing page and stores the
// projects not seen before. It returns the number actually created.
func (s *ProjectService) ScrapeAndSaveProjects(ctx context.Context, page int) (int, error) {
	drafts, err := s.listings.Extract(ctx, page)
	if err != nil {
		return 0, fmt.Errorf("extract listing page %d: %w", page, err)
	}

	fresh := make([]domain.ProjectDraft, 0, len(drafts))
	for _, draft := range drafts {
		exists, err := s.repo.ExistsByLink(ctx, draft.Link)
		if err != nil {
			return 0, fmt.Errorf("check link %s: %w", draft.Link, err)
		}
		if exists {
			continue
		}
		fresh = append(fresh, draft)
	}

	created, err := s.repo.CreateMany(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("store projects: %w", err)
	}

	s.logger.Info("Listing page scraped",
		"page", page,
		"found", len(drafts),
		"created", len(created))
	return len(created), nil
}

// ProcessActiveProjects runs every unresolved project through the
// bidding state machine, one at a time in insertion order. A failure
// on one project never stops the run; cancellation does.
func (s *ProjectService) ProcessActiveProjects(ctx context.Context) (Summary, error) {
	projects, err := s.repo.GetActiveProjects(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load active projects: %w", err)
	}

	var summary Summary
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := s.ProcessProject(ctx, project)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			s.logger.Error("Project processing failed",
				"link", project.Link,
				"error", err)
		}

		summary.Processed++
		switch {
		case outcome == domain.OutcomeSubmitted || outcome == domain.OutcomeAlreadyBid:
			summary.Placed++
		case !outcome.Resolved():
			summary.LeftActive++
		default:
			summary.Skipped++
		}
	}

	s.logger.Info("Processing run finished",
		"processed", summary.Processed,
		"placed", summary.Placed,
		"skipped", summary.Skipped,
		"left_active", summary.LeftActive)
	return summary, nil
}

// ProcessProject advances one project through the state machine and
// persists at most one terminal transition. Transient outcomes (an
// empty decision, a rejected form) leave the project active for the
// next run.
func (s *ProjectService) ProcessProject(ctx context.Context, project *domain.Project) (domain.Outcome, error) {
	log := s.logger.WithLink(project.Link)

	status, err := s.classifier.Classify(ctx, project)
	if err != nil {
		return s.failSafeSkip(ctx, project, fmt.Errorf("classify status: %w", err))
	}

	switch {
	case status.AlreadyBid:
		log.Info("Bid already present, marking placed")
		if err := s.markPlaced(ctx, project, nil); err != nil {
			return domain.OutcomeAlreadyBid, err
		}
		return domain.OutcomeAlreadyBid, nil
	case status.NoMoreBids:
		log.Info("Project closed for bids, skipping")
		if err := s.markSkipped(ctx, project); err != nil {
			return domain.OutcomeClosed, err
		}
		return domain.OutcomeClosed, nil
	case status.TooManyBids:
		log.Info("Bid limit reached, skipping")
		if err := s.markSkipped(ctx, project); err != nil {
			return domain.OutcomeRateLimited, err
		}
		return domain.OutcomeRateLimited, nil
	}

	description, err := s.details.Extract(ctx, project)
	if err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			log.Warn("Description missing, skipping")
			if skipErr := s.markSkipped(ctx, project); skipErr != nil {
				return domain.OutcomeElementError, skipErr
			}
			return domain.OutcomeElementError, nil
		}
		return s.failSafeSkip(ctx, project, fmt.Errorf("extract description: %w", err))
	}
	if strings.TrimSpace(description) == "" {
		log.Warn("Description empty, skipping")
		if err := s.markSkipped(ctx, project); err != nil {
			return domain.OutcomeElementError, err
		}
		return domain.OutcomeElementError, nil
	}

	decision, err := s.engine.Decide(ctx, description)
	if err != nil {
		return s.failSafeSkip(ctx, project, fmt.Errorf("decide bid: %w", err))
	}

	switch decision.Kind {
	case domain.DecisionSkip:
		log.Info("Declined by decision engine", "reason", decision.Reason)
		if err := s.markSkipped(ctx, project); err != nil {
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeSkipped, nil
	case domain.DecisionEmpty:
		log.Warn("Decision engine returned nothing, leaving project active")
		return domain.OutcomeBidEmpty, nil
	}

	result, err := s.submitter.Submit(ctx, project, decision.Message)
	if err != nil {
		return s.failSafeSkip(ctx, project, fmt.Errorf("submit bid: %w", err))
	}
	if !result.Submitted {
		log.Warn("Bid form rejected, leaving project active",
			"errors", strings.Join(result.Errors, "; "))
		return domain.OutcomeValidationFailed, nil
	}

	log.Info("Bid submitted")
	if err := s.markPlaced(ctx, project, &decision.Message); err != nil {
		return domain.OutcomeSubmitted, err
	}
	return domain.OutcomeSubmitted, nil
}

// failSafeSkip persists a skip for a project that hit an unexpected
// failure, so a broken page cannot be retried forever.
func (s *ProjectService) failSafeSkip(ctx context.Context, project *domain.Project, cause error) (domain.Outcome, error) {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return domain.OutcomeSkipped, cause
	}
	s.logger.Error("Unexpected failure, skipping project",
		"link", project.Link,
		"error", cause)
	if err := s.markSkipped(ctx, project); err != nil {
		return domain.OutcomeSkipped, errors.Join(cause, err)
	}
	return domain.OutcomeSkipped, cause
}

func (s *ProjectService) markPlaced(ctx context.Context, project *domain.Project, message *string) error {
	placed := true
	update := domain.ProjectUpdate{IsBidPlaced: &placed, BidMessage: message}
	if err := s.repo.Update(ctx, project.ID, update); err != nil {
		return fmt.Errorf("mark placed %s: %w", project.Link, err)
	}
	project.IsBidPlaced = true
	project.BidMessage = message
	return nil
}

func (s *ProjectService) markSkipped(ctx context.Context, project *domain.Project) error {
	skipped := true
	update := domain.ProjectUpdate{IsBidSkipped: &skipped}
	if err := s.repo.Update(ctx, project.ID, update); err != nil {
		return fmt.Errorf("mark skipped %s: %w", project.Link, err)
	}
	project.IsBidSkipped = true
	return nil
}
