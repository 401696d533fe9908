package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
	"github.com/netly-dev/gobid/internal/pipeline"
	"github.com/netly-dev/gobid/testutils"
)

// harness bundles the mocked collaborators around one service.
type harness struct {
	repo       *testutils.MockProjectRepository
	listings   *testutils.MockListingExtractor
	details    *testutils.MockDetailExtractor
	classifier *testutils.MockStatusClassifier
	engine     *testutils.MockDecisionEngine
	submitter  *testutils.MockBidSubmitter
	service    *pipeline.ProjectService
}

func newHarness() *harness {
	h := &harness{
		repo:       &testutils.MockProjectRepository{},
		listings:   &testutils.MockListingExtractor{},
		details:    &testutils.MockDetailExtractor{},
		classifier: &testutils.MockStatusClassifier{},
		engine:     &testutils.MockDecisionEngine{},
		submitter:  &testutils.MockBidSubmitter{},
	}
	h.service = pipeline.NewProjectService(
		h.repo, h.listings, h.details, h.classifier, h.engine, h.submitter,
		logger.NewNoOp(),
	)
	return h
}

func (h *harness) assertExpectations(t *testing.T) {
	t.Helper()
	h.repo.AssertExpectations(t)
	h.listings.AssertExpectations(t)
	h.details.AssertExpectations(t)
	h.classifier.AssertExpectations(t)
	h.engine.AssertExpectations(t)
	h.submitter.AssertExpectations(t)
}

func testProject() *domain.Project {
	return &domain.Project{
		ID:          "b5f9b30e-9a34-4b2f-9d23-0f2f5a1c6d77",
		Marketplace: domain.MarketplaceFreelancehunt,
		Title:       "Web scraper for price monitoring",
		Link:        "https://freelancehunt.com/project/web-scraper/1.html",
		Price:       8000,
		Currency:    "UAH",
	}
}

// skippedOnly matches an update that marks the project skipped and
// touches nothing else. Placed and skipped must never both be set.
var skippedOnly = mock.MatchedBy(func(u domain.ProjectUpdate) bool {
	return u.IsBidSkipped != nil && *u.IsBidSkipped &&
		u.IsBidPlaced == nil && u.BidMessage == nil
})

// placedOnly matches an update that marks the project placed without
// marking it skipped.
var placedOnly = mock.MatchedBy(func(u domain.ProjectUpdate) bool {
	return u.IsBidPlaced != nil && *u.IsBidPlaced && u.IsBidSkipped == nil
})

func TestProjectService_ScrapeAndSaveProjects(t *testing.T) {
	t.Parallel()

	t.Run("stores only unseen links", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		known := domain.ProjectDraft{
			Marketplace: domain.MarketplaceFreelancehunt,
			Title:       "Old project",
			Link:        "https://freelancehunt.com/project/old/1.html",
			Price:       1000,
			Currency:    "UAH",
		}
		fresh := domain.ProjectDraft{
			Marketplace: domain.MarketplaceFreelancehunt,
			Title:       "New project",
			Link:        "https://freelancehunt.com/project/new/2.html",
			Price:       2000,
			Currency:    "UAH",
		}

		h.listings.On("Extract", mock.Anything, 1).
			Return([]domain.ProjectDraft{known, fresh}, nil)
		h.repo.On("ExistsByLink", mock.Anything, known.Link).Return(true, nil)
		h.repo.On("ExistsByLink", mock.Anything, fresh.Link).Return(false, nil)
		h.repo.On("CreateMany", mock.Anything, []domain.ProjectDraft{fresh}).
			Return([]*domain.Project{{ID: "id-1", Link: fresh.Link}}, nil)

		created, err := h.service.ScrapeAndSaveProjects(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		h.assertExpectations(t)
	})

	t.Run("rescraping an unchanged page stores nothing", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		draft := domain.ProjectDraft{
			Title: "Seen before",
			Link:  "https://freelancehunt.com/project/seen/3.html",
		}

		h.listings.On("Extract", mock.Anything, 2).
			Return([]domain.ProjectDraft{draft}, nil)
		h.repo.On("ExistsByLink", mock.Anything, draft.Link).Return(true, nil)
		h.repo.On("CreateMany", mock.Anything, []domain.ProjectDraft{}).
			Return([]*domain.Project{}, nil)

		created, err := h.service.ScrapeAndSaveProjects(context.Background(), 2)
		require.NoError(t, err)
		assert.Zero(t, created)
		h.assertExpectations(t)
	})

	t.Run("page failure propagates", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		h.listings.On("Extract", mock.Anything, 7).
			Return(nil, browser.ErrPageLoad)

		_, err := h.service.ScrapeAndSaveProjects(context.Background(), 7)
		require.ErrorIs(t, err, browser.ErrPageLoad)
		h.assertExpectations(t)
	})
}

func TestProjectService_ProcessProject(t *testing.T) {
	t.Parallel()

	t.Run("already bid marks placed without a message", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{AlreadyBid: true}, nil)
		h.repo.On("Update", mock.Anything, project.ID, placedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeAlreadyBid, outcome)
		assert.True(t, project.IsBidPlaced)
		assert.False(t, project.IsBidSkipped)
		assert.Nil(t, project.BidMessage)
		h.assertExpectations(t)
	})

	t.Run("closed project is skipped", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{NoMoreBids: true}, nil)
		h.repo.On("Update", mock.Anything, project.ID, skippedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeClosed, outcome)
		assert.True(t, project.IsBidSkipped)
		h.assertExpectations(t)
	})

	t.Run("bid limit is skipped", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{TooManyBids: true}, nil)
		h.repo.On("Update", mock.Anything, project.ID, skippedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeRateLimited, outcome)
		h.assertExpectations(t)
	})

	t.Run("missing description is skipped", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, project).
			Return("", browser.ErrElementNotFound)
		h.repo.On("Update", mock.Anything, project.ID, skippedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeElementError, outcome)
		h.assertExpectations(t)
	})

	t.Run("declined decision is skipped", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, project).
			Return("Потрібен дизайнер логотипів", nil)
		h.engine.On("Decide", mock.Anything, "Потрібен дизайнер логотипів").
			Return(domain.Decision{Kind: domain.DecisionSkip, Reason: "generator declined the project"}, nil)
		h.repo.On("Update", mock.Anything, project.ID, skippedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeSkipped, outcome)
		h.assertExpectations(t)
	})

	t.Run("empty decision leaves the project active", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, project).
			Return("Потрібен веб-скрапер", nil)
		h.engine.On("Decide", mock.Anything, "Потрібен веб-скрапер").
			Return(domain.Decision{Kind: domain.DecisionEmpty}, nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeBidEmpty, outcome)
		assert.False(t, outcome.Resolved())
		assert.True(t, project.IsActive())
		h.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		h.assertExpectations(t)
	})

	t.Run("accepted submission stores the message and marks placed", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		const message = "Вітаю! Netly може розробити цей скрапер.\nНаш сайт: https://netly.pp.ua\nБуду радий обговорити деталі."

		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, project).
			Return("Потрібен веб-скрапер цін конкурентів", nil)
		h.engine.On("Decide", mock.Anything, "Потрібен веб-скрапер цін конкурентів").
			Return(domain.Decision{Kind: domain.DecisionBid, Message: message}, nil)
		h.submitter.On("Submit", mock.Anything, project, message).
			Return(domain.SubmitResult{Submitted: true}, nil)
		h.repo.On("Update", mock.Anything, project.ID, mock.MatchedBy(func(u domain.ProjectUpdate) bool {
			return u.IsBidPlaced != nil && *u.IsBidPlaced &&
				u.IsBidSkipped == nil &&
				u.BidMessage != nil && *u.BidMessage == message
		})).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeSubmitted, outcome)
		assert.True(t, project.IsBidPlaced)
		require.NotNil(t, project.BidMessage)
		assert.Equal(t, message, *project.BidMessage)
		h.assertExpectations(t)
	})

	t.Run("rejected form leaves the project active", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, project).
			Return("Потрібен веб-скрапер", nil)
		h.engine.On("Decide", mock.Anything, mock.Anything).
			Return(domain.Decision{Kind: domain.DecisionBid, Message: "Вітаю!"}, nil)
		h.submitter.On("Submit", mock.Anything, project, "Вітаю!").
			Return(domain.SubmitResult{
				Submitted: false,
				Errors:    []string{"Ставка занадто низька"},
			}, nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeValidationFailed, outcome)
		assert.False(t, outcome.Resolved())
		assert.True(t, project.IsActive())
		h.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		h.assertExpectations(t)
	})

	t.Run("classifier failure falls back to a persisted skip", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, browser.ErrPageLoad)
		h.repo.On("Update", mock.Anything, project.ID, skippedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.ErrorIs(t, err, browser.ErrPageLoad)
		assert.Equal(t, domain.OutcomeSkipped, outcome)
		assert.True(t, project.IsBidSkipped)
		h.assertExpectations(t)
	})

	t.Run("submission failure falls back to a persisted skip", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, project).
			Return("Потрібен веб-скрапер", nil)
		h.engine.On("Decide", mock.Anything, mock.Anything).
			Return(domain.Decision{Kind: domain.DecisionBid, Message: "Вітаю!"}, nil)
		h.submitter.On("Submit", mock.Anything, project, "Вітаю!").
			Return(domain.SubmitResult{}, browser.ErrElementNotFound)
		h.repo.On("Update", mock.Anything, project.ID, skippedOnly).Return(nil)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.ErrorIs(t, err, browser.ErrElementNotFound)
		assert.Equal(t, domain.OutcomeSkipped, outcome)
		h.assertExpectations(t)
	})

	t.Run("cancellation does not persist a skip", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		project := testProject()
		h.classifier.On("Classify", mock.Anything, project).
			Return(domain.StatusSnapshot{}, context.Canceled)

		outcome, err := h.service.ProcessProject(context.Background(), project)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, domain.OutcomeSkipped, outcome)
		assert.True(t, project.IsActive())
		h.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		h.assertExpectations(t)
	})
}

func TestProjectService_ProcessActiveProjects(t *testing.T) {
	t.Parallel()

	t.Run("summarizes a mixed run", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		placed := testProject()
		placed.ID = "placed-id"
		placed.Link = "https://freelancehunt.com/project/a/1.html"
		closed := testProject()
		closed.ID = "closed-id"
		closed.Link = "https://freelancehunt.com/project/b/2.html"
		transient := testProject()
		transient.ID = "transient-id"
		transient.Link = "https://freelancehunt.com/project/c/3.html"

		h.repo.On("GetActiveProjects", mock.Anything).
			Return([]*domain.Project{placed, closed, transient}, nil)

		h.classifier.On("Classify", mock.Anything, placed).
			Return(domain.StatusSnapshot{AlreadyBid: true}, nil)
		h.repo.On("Update", mock.Anything, placed.ID, placedOnly).Return(nil)

		h.classifier.On("Classify", mock.Anything, closed).
			Return(domain.StatusSnapshot{NoMoreBids: true}, nil)
		h.repo.On("Update", mock.Anything, closed.ID, skippedOnly).Return(nil)

		h.classifier.On("Classify", mock.Anything, transient).
			Return(domain.StatusSnapshot{}, nil)
		h.details.On("Extract", mock.Anything, transient).
			Return("Потрібен веб-скрапер", nil)
		h.engine.On("Decide", mock.Anything, mock.Anything).
			Return(domain.Decision{Kind: domain.DecisionEmpty}, nil)

		summary, err := h.service.ProcessActiveProjects(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Processed)
		assert.Equal(t, 1, summary.Placed)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 1, summary.LeftActive)
		h.assertExpectations(t)
	})

	t.Run("a failed project does not stop the run", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		broken := testProject()
		broken.ID = "broken-id"
		broken.Link = "https://freelancehunt.com/project/broken/1.html"
		fine := testProject()
		fine.ID = "fine-id"
		fine.Link = "https://freelancehunt.com/project/fine/2.html"

		h.repo.On("GetActiveProjects", mock.Anything).
			Return([]*domain.Project{broken, fine}, nil)

		h.classifier.On("Classify", mock.Anything, broken).
			Return(domain.StatusSnapshot{}, errors.New("tab crashed"))
		h.repo.On("Update", mock.Anything, broken.ID, skippedOnly).Return(nil)

		h.classifier.On("Classify", mock.Anything, fine).
			Return(domain.StatusSnapshot{AlreadyBid: true}, nil)
		h.repo.On("Update", mock.Anything, fine.ID, placedOnly).Return(nil)

		summary, err := h.service.ProcessActiveProjects(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Processed)
		assert.Equal(t, 1, summary.Placed)
		assert.Equal(t, 1, summary.Skipped)
		h.assertExpectations(t)
	})

	t.Run("cancellation stops before the next project", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		ctx, cancel := context.WithCancel(context.Background())

		first := testProject()
		first.ID = "first-id"
		first.Link = "https://freelancehunt.com/project/first/1.html"
		second := testProject()
		second.ID = "second-id"
		second.Link = "https://freelancehunt.com/project/second/2.html"

		h.repo.On("GetActiveProjects", mock.Anything).
			Return([]*domain.Project{first, second}, nil)
		h.classifier.On("Classify", mock.Anything, first).
			Run(func(mock.Arguments) { cancel() }).
			Return(domain.StatusSnapshot{AlreadyBid: true}, nil)
		h.repo.On("Update", mock.Anything, first.ID, placedOnly).Return(nil)

		summary, err := h.service.ProcessActiveProjects(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, summary.Processed)
		h.classifier.AssertNotCalled(t, "Classify", mock.Anything, second)
		h.assertExpectations(t)
	})
}
