package domain

// DecisionKind enumerates the possible results of the decision engine.
type DecisionKind string

const (
	// DecisionSkip means the generator declined the project. Permanent
	// for this project.
	DecisionSkip DecisionKind = "skip"
	// DecisionBid means the generator produced a bid message.
	DecisionBid DecisionKind = "bid"
	// DecisionEmpty means the generator returned nothing after all
	// retries. Likely a transient provider fault: callers must not
	// treat it as a skip, the project stays eligible for a future run.
	DecisionEmpty DecisionKind = "empty"
)

// Decision is the outcome of one decision-engine invocation for one
// project. It is transient and never persisted as its own entity.
type Decision struct {
	Kind DecisionKind
	// Message holds the generated bid text when Kind is DecisionBid.
	Message string
	// Reason is informational only.
	Reason string
}
