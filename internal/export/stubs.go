package export

import (
	"context"

	"github.com/jomei/notionapi"

	"github.com/sells-group/lead-intel/pkg/anthropic"
	"github.com/sells-group/lead-intel/pkg/notion"
	"github.com/sells-group/lead-intel/pkg/salesforce"
)

// Compile-time interface checks.
var (
	_ salesforce.Client = (*StubSalesforceClient)(nil)
	_ notion.Client     = (*StubNotionClient)(nil)
	_ anthropic.Client  = (*StubAnthropicClient)(nil)
)

// --- Salesforce Stub ---

// StubSalesforceClient implements salesforce.Client as a no-op. Inserts
// report success so dry runs count what a real push would create.
type StubSalesforceClient struct{}

// Query implements salesforce.Client. The output slice is left empty.
func (s *StubSalesforceClient) Query(_ context.Context, _ string, _ any) error {
	return nil
}

// InsertOne implements salesforce.Client.
func (s *StubSalesforceClient) InsertOne(_ context.Context, _ string, _ map[string]any) (string, error) {
	return "stub-sf-001", nil
}

// InsertCollection implements salesforce.Client.
func (s *StubSalesforceClient) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]salesforce.RecordResult, error) {
	results := make([]salesforce.RecordResult, len(records))
	for i := range records {
		results[i] = salesforce.RecordResult{ID: "stub-sf-001", Success: true}
	}
	return results, nil
}

// --- Notion Stub ---

// StubNotionClient implements notion.Client as a no-op. The empty query
// response makes every dry-run push a create.
type StubNotionClient struct{}

// QueryDatabase implements notion.Client.
func (s *StubNotionClient) QueryDatabase(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{}, nil
}

// CreatePage implements notion.Client.
func (s *StubNotionClient) CreatePage(_ context.Context, _ *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return &notionapi.Page{ID: "stub-page-001"}, nil
}

// UpdatePage implements notion.Client.
func (s *StubNotionClient) UpdatePage(_ context.Context, pageID string, _ *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

// --- Anthropic Stub ---

// StubAnthropicClient implements anthropic.Client with a canned briefing.
type StubAnthropicClient struct{}

// Complete implements anthropic.Client.
func (s *StubAnthropicClient) Complete(_ context.Context, req anthropic.Request) (*anthropic.Completion, error) {
	return &anthropic.Completion{
		ID:         "stub-msg-001",
		Model:      req.Model,
		Text:       stubBriefing,
		StopReason: "end_turn",
		Usage: anthropic.TokenUsage{
			InputTokens:  150,
			OutputTokens: 50,
		},
	}, nil
}

const stubBriefing = `Pipeline health is steady. The queue has one immediate-contact lead and a
handful of warm follow-ups; start at the top of tier 1 and work down.`
