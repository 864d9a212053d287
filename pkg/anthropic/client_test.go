package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Completion), args.Error(1)
}

func TestMockClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	var _ Client = (*MockClient)(nil)
}

func TestComplete_MockClient(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	req := Request{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 1024,
		Prompt:    "Summarize the pipeline",
	}
	mc.On("Complete", ctx, req).Return(&Completion{
		ID:         "msg_001",
		Model:      "claude-sonnet-4-5-20250929",
		Text:       "Summary text",
		StopReason: "end_turn",
		Usage:      TokenUsage{InputTokens: 100, OutputTokens: 20},
	}, nil)

	resp, err := mc.Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "msg_001", resp.ID)
	assert.Equal(t, "Summary text", resp.Text)
	mc.AssertExpectations(t)
}

func TestComplete_MockClient_Error(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("Complete", ctx, mock.AnythingOfType("Request")).
		Return(nil, assert.AnError)

	resp, err := mc.Complete(ctx, Request{Model: "claude-haiku-4-5-20251001"})
	assert.Error(t, err)
	assert.Nil(t, resp)
	mc.AssertExpectations(t)
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name  string
		model string
		usage TokenUsage
		want  float64
	}{
		{
			name:  "haiku one mtok each way",
			model: "claude-haiku-4-5-20251001",
			usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
			want:  4.80, // 0.80 in + 4.00 out
		},
		{
			name:  "sonnet one mtok each way",
			model: "claude-sonnet-4-5-20250929",
			usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
			want:  18.00, // 3.00 in + 15.00 out
		},
		{
			name:  "haiku with cache traffic",
			model: "claude-haiku-4-5-20251001",
			usage: TokenUsage{
				InputTokens:              500_000,
				OutputTokens:             100_000,
				CacheCreationInputTokens: 200_000,
				CacheReadInputTokens:     300_000,
			},
			// 0.40 in + 0.40 out + 0.20 cache write + 0.024 cache read
			want: 1.024,
		},
		{
			name:  "unknown model prices as zero",
			model: "some-other-model",
			usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
			want:  0,
		},
		{
			name:  "zero usage",
			model: "claude-haiku-4-5-20251001",
			usage: TokenUsage{},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.usage.EstimateCost(tt.model), 0.001)
		})
	}
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	usage := TokenUsage{InputTokens: 1000, OutputTokens: 200}
	assert.NotPanics(t, func() {
		usage.LogCost("claude-sonnet-4-5-20250929", "brief")
	})
}
