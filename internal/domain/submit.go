package domain

// SubmitResult reports the interpreted post-submit page state after
// one bid submission attempt.
type SubmitResult struct {
	// Submitted is true when no form-level error marker appeared.
	Submitted bool
	// Errors holds the form's error-text fragments when the
	// submission was rejected.
	Errors []string
}
