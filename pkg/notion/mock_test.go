package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock for the Client interface, shared by the
// package's tests. The soft type assertions turn a nil return value into a
// typed nil without an explicit branch per method.
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	resp, _ := args.Get(0).(*notionapi.DatabaseQueryResponse)
	return resp, args.Error(1)
}

func (m *MockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	page, _ := args.Get(0).(*notionapi.Page)
	return page, args.Error(1)
}

func (m *MockClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	page, _ := args.Get(0).(*notionapi.Page)
	return page, args.Error(1)
}
