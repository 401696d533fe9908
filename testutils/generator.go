package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of the text generator behind
// the decision engine.
type MockGenerator struct {
	mock.Mock
}

// Generate returns the scripted generation output for a prompt.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// ScriptedGenerator replays a fixed sequence of responses, one per
// call, repeating the last entry once the script runs out.
type ScriptedGenerator struct {
	Responses []string
	Err       error
	Calls     int
}

// Generate returns the next scripted response.
func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Calls++
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Responses) == 0 {
		return "", nil
	}
	idx := g.Calls - 1
	if idx >= len(g.Responses) {
		idx = len(g.Responses) - 1
	}
	return g.Responses[idx], nil
}
