package domain

// Outcome names the terminal state of one pipeline pass over one
// project. Used for logging and run summaries.
type Outcome string

const (
	// OutcomeAlreadyBid: the page shows a bid from this account.
	OutcomeAlreadyBid Outcome = "already_bid"
	// OutcomeClosed: the project no longer accepts bids.
	OutcomeClosed Outcome = "closed"
	// OutcomeRateLimited: the marketplace throttled this account.
	OutcomeRateLimited Outcome = "rate_limited"
	// OutcomeSkipped: the decision engine declined, or a page anomaly
	// made the project unprocessable.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeBidEmpty: the generator produced nothing; the project
	// stays active for a future run.
	OutcomeBidEmpty Outcome = "bid_empty"
	// OutcomeSubmitted: a bid was placed and recorded.
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeValidationFailed: the bid form rejected the submission;
	// the project stays active for a future run.
	OutcomeValidationFailed Outcome = "validation_failed"
	// OutcomeElementError: the description container was missing.
	OutcomeElementError Outcome = "element_error"
)

// Resolved reports whether the outcome ended the project's lifecycle,
// i.e. the project is no longer active after this pass.
func (o Outcome) Resolved() bool {
	switch o {
	case OutcomeBidEmpty, OutcomeValidationFailed:
		return false
	default:
		return true
	}
}
