package export

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-intel/pkg/anthropic"
	"github.com/sells-group/lead-intel/pkg/notion"
	"github.com/sells-group/lead-intel/pkg/salesforce"
)

// --- Salesforce Mock ---

// mockSFClient implements salesforce.Client with configurable function
// fields. Unset fields succeed with empty results.
type mockSFClient struct {
	queryFn            func(ctx context.Context, soql string, out any) error
	insertCollectionFn func(ctx context.Context, sObjectName string, records []map[string]any) ([]salesforce.RecordResult, error)

	queries       []string
	insertedBatch [][]map[string]any
}

func (m *mockSFClient) Query(ctx context.Context, soql string, out any) error {
	m.queries = append(m.queries, soql)
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func (m *mockSFClient) InsertOne(_ context.Context, _ string, _ map[string]any) (string, error) {
	return "00Tmock", nil
}

func (m *mockSFClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]salesforce.RecordResult, error) {
	m.insertedBatch = append(m.insertedBatch, records)
	if m.insertCollectionFn != nil {
		return m.insertCollectionFn(ctx, sObjectName, records)
	}
	results := make([]salesforce.RecordResult, len(records))
	for i := range records {
		results[i] = salesforce.RecordResult{ID: "00Tmock", Success: true}
	}
	return results, nil
}

// --- Notion Mock ---

type mockNotionClient struct {
	mock.Mock
}

func (m *mockNotionClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *mockNotionClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *mockNotionClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) Complete(ctx context.Context, req anthropic.Request) (*anthropic.Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.Completion), args.Error(1)
}

// Compile-time interface checks.
var (
	_ salesforce.Client = (*mockSFClient)(nil)
	_ notion.Client     = (*mockNotionClient)(nil)
	_ anthropic.Client  = (*mockAnthropicClient)(nil)
)
