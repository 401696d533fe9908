package ai

import (
	"context"
	"strings"

	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
)

// skipSignal is the literal text the prompt instructs the generator
// to return for projects outside the agency's profile. Compared
// case-insensitively.
const skipSignal = "false"

// DecisionEngine turns a project description into a bid decision via
// the text-generation provider, retrying empty responses up to a
// bound.
type DecisionEngine struct {
	generator Generator
	maxTries  int
	logger    logger.Interface
}

// NewDecisionEngine creates a decision engine. maxTries bounds
// attempts on empty generation responses.
func NewDecisionEngine(generator Generator, maxTries int, log logger.Interface) *DecisionEngine {
	if maxTries < 1 {
		maxTries = 1
	}
	return &DecisionEngine{
		generator: generator,
		maxTries:  maxTries,
		logger:    log.WithComponent("decision_engine"),
	}
}

// Decide produces a decision for the given project description.
//
// The generated text is taken verbatim: the literal "false" (any
// letter case) is the skip signal, anything else non-empty is the bid
// message. When every attempt comes back empty the result is
// DecisionEmpty — a transient provider fault, not a skip; the caller
// must leave the project active.
func (e *DecisionEngine) Decide(ctx context.Context, description string) (domain.Decision, error) {
	prompt := BuildPrompt(description)

	for attempt := 1; attempt <= e.maxTries; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Decision{}, err
		}

		text, err := e.generator.Generate(ctx, prompt)
		if err != nil {
			e.logger.Warn("Generation attempt failed",
				"attempt", attempt,
				"max_tries", e.maxTries,
				"error", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			e.logger.Warn("Generator returned empty response",
				"attempt", attempt,
				"max_tries", e.maxTries)
			continue
		}

		if strings.EqualFold(text, skipSignal) {
			return domain.Decision{
				Kind:   domain.DecisionSkip,
				Reason: "generator declined the project",
			}, nil
		}

		return domain.Decision{Kind: domain.DecisionBid, Message: text}, nil
	}

	e.logger.Error("Generator exhausted retries without content",
		"max_tries", e.maxTries)
	return domain.Decision{
		Kind:   domain.DecisionEmpty,
		Reason: "no content after all attempts",
	}, nil
}
