package api

import (
	"context"
	"sync"
)

// MockWebhookClient is a mock implementation of WebhookClientInterface for testing
type MockWebhookClient struct {
	// Mock return values
	Reply       string
	Err         error
	EndpointVal string
	IsClosedVal bool

	// AskFunc, when set, overrides Reply and Err
	AskFunc func(ctx context.Context, question string) (string, error)

	// Call counters/recorders
	mu          sync.Mutex
	AskCalls    int
	LastPrompt  string
	Questions   []string
	CloseCalled bool
}

// Ensure MockWebhookClient implements WebhookClientInterface
var _ WebhookClientInterface = (*MockWebhookClient)(nil)

func (m *MockWebhookClient) Ask(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.AskCalls++
	m.LastPrompt = question
	m.Questions = append(m.Questions, question)
	askFunc := m.AskFunc
	m.mu.Unlock()

	if askFunc != nil {
		return askFunc(ctx, question)
	}
	return m.Reply, m.Err
}

func (m *MockWebhookClient) Endpoint() string {
	if m.EndpointVal == "" {
		return "https://webhook.test/ask"
	}
	return m.EndpointVal
}

func (m *MockWebhookClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	m.IsClosedVal = true
}

func (m *MockWebhookClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.IsClosedVal
}

// Calls returns the number of Ask invocations so far
func (m *MockWebhookClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AskCalls
}
