// Package anthropic wraps the Anthropic SDK behind a single-turn
// completion interface sized for the briefing generator.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Client produces one completion per call. Implementations must be safe
// for concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Request is a single-turn completion request. A non-empty System prompt
// is sent as a cached system block with a 1h TTL, so back-to-back
// briefings reuse the prefix.
type Request struct {
	Model     string
	MaxTokens int64
	System    string
	Prompt    string
}

// Completion is the flattened result of one completion call. Text joins
// the response's text blocks with newlines.
type Completion struct {
	ID         string
	Model      string
	Text       string
	StopReason string
	Usage      TokenUsage
}

// TokenUsage mirrors the API's usage accounting for one call.
type TokenUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// tokenRates is USD per million tokens.
type tokenRates struct {
	input  float64
	output float64
}

var modelRates = map[string]tokenRates{
	"claude-haiku-4-5-20251001":  {input: 0.80, output: 4.00},
	"claude-sonnet-4-5-20250929": {input: 3.00, output: 15.00},
	"claude-opus-4-6":            {input: 15.00, output: 75.00},
}

// EstimateCost prices the usage in USD for the given model. Cache writes
// bill at 1.25x the input rate and cache reads at a tenth of it. Unknown
// models price as zero.
func (u TokenUsage) EstimateCost(model string) float64 {
	r, ok := modelRates[model]
	if !ok {
		return 0
	}
	const mtok = 1e6
	cost := float64(u.InputTokens) / mtok * r.input
	cost += float64(u.OutputTokens) / mtok * r.output
	cost += float64(u.CacheCreationInputTokens) / mtok * r.input * 1.25
	cost += float64(u.CacheReadInputTokens) / mtok * r.input * 0.1
	return cost
}

// LogCost emits a structured cost line attributing the usage to a phase.
func (u TokenUsage) LogCost(model, phase string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Int64("cache_write_tokens", u.CacheCreationInputTokens),
		zap.Int64("cache_read_tokens", u.CacheReadInputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

// sdkClient is the production Client backed by anthropic-sdk-go.
type sdkClient struct {
	api sdk.Client
}

// NewClient returns a Client authenticated with the given API key.
func NewClient(apiKey string) Client {
	return &sdkClient{api: sdk.NewClient(option.WithAPIKey(apiKey))}
}

func (c *sdkClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	msg, err := c.api.Messages.New(ctx, buildParams(req))
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: complete")
	}
	return flatten(msg), nil
}

// buildParams maps a Request onto the SDK's message parameters. The
// prompt becomes the sole user message.
func buildParams(req Request) sdk.MessageNewParams {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
	}
	if req.System != "" {
		block := sdk.TextBlockParam{Text: req.System}
		block.CacheControl = sdk.NewCacheControlEphemeralParam()
		block.CacheControl.TTL = sdk.CacheControlEphemeralTTL("1h")
		params.System = []sdk.TextBlockParam{block}
	}
	return params
}

// flatten reduces an SDK message to the Completion shape. Non-text and
// empty blocks are dropped.
func flatten(msg *sdk.Message) *Completion {
	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return &Completion{
		ID:         msg.ID,
		Model:      string(msg.Model),
		Text:       strings.Join(parts, "\n"),
		StopReason: string(msg.StopReason),
		Usage: TokenUsage{
			InputTokens:              msg.Usage.InputTokens,
			OutputTokens:             msg.Usage.OutputTokens,
			CacheCreationInputTokens: msg.Usage.CacheCreationInputTokens,
			CacheReadInputTokens:     msg.Usage.CacheReadInputTokens,
		},
	}
}
