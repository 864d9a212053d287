// Package notion wraps the Notion API for lead database queries and page
// management.
package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// defaultRequestsPerSecond is Notion's documented API rate limit.
const defaultRequestsPerSecond = 3

// Client defines the Notion API operations used by this application.
type Client interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

// databaseService is the slice of notionapi's database API that apiClient
// consumes. notionapi.Client.Database satisfies it.
type databaseService interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// pageService is the slice of notionapi's page API that apiClient consumes.
// notionapi.Client.Page satisfies it.
type pageService interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	Update(ctx context.Context, id notionapi.PageID, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

// Option configures the Notion client.
type Option func(*apiClient)

// WithRateLimit overrides the default request throttle. A rate of zero or
// below disables throttling entirely.
func WithRateLimit(rps float64) Option {
	return func(c *apiClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

type apiClient struct {
	db      databaseService
	pages   pageService
	limiter *rate.Limiter
}

// NewClient creates a Notion client for the given integration token,
// throttled to Notion's 3 req/s limit unless overridden.
func NewClient(token string, opts ...Option) Client {
	api := notionapi.NewClient(notionapi.Token(token))
	c := &apiClient{
		db:      api.Database,
		pages:   api.Page,
		limiter: rate.NewLimiter(defaultRequestsPerSecond, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *apiClient) throttle(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "notion: rate limit")
	}
	return nil
}

func (c *apiClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	resp, err := c.db.Query(ctx, notionapi.DatabaseID(dbID), req)
	if err != nil {
		return nil, eris.Wrapf(err, "notion: query database %s", dbID)
	}
	return resp, nil
}

func (c *apiClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	page, err := c.pages.Create(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "notion: create page")
	}
	return page, nil
}

func (c *apiClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	page, err := c.pages.Update(ctx, notionapi.PageID(pageID), req)
	if err != nil {
		return nil, eris.Wrapf(err, "notion: update page %s", pageID)
	}
	return page, nil
}
