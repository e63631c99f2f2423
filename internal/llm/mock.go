package llm

import (
	"context"
	"sync"
)

// mockResponses cycle so repeated local testing doesn't feel frozen.
var mockResponses = []string{
	"That's an interesting question. Based on what you've shared, here's how I would approach it.",
	"Let me walk you through this step by step so the reasoning stays clear.",
	"There are a couple of angles worth considering here; the most practical one is usually the simplest.",
	"Good question. The short answer is that it depends on the constraints you care about most.",
}

// Mock is an offline Generator used when no API key is configured.
type Mock struct {
	mu   sync.Mutex
	next int
}

func NewMock() *Mock {
	return &Mock{}
}

// Generate returns a canned response, cycling deterministically.
func (m *Mock) Generate(ctx context.Context, prompt string, params ModelParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	resp := mockResponses[m.next%len(mockResponses)]
	m.next++
	m.mu.Unlock()
	return resp, nil
}
