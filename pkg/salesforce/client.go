// Package salesforce provides JWT-authenticated REST API access to Salesforce.
package salesforce

import (
	"context"
	"fmt"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client is the Salesforce surface the task sync uses.
type Client interface {
	Query(ctx context.Context, soql string, out any) error
	InsertOne(ctx context.Context, object string, record map[string]any) (string, error)
	InsertCollection(ctx context.Context, object string, records []map[string]any) ([]RecordResult, error)
}

// RecordResult is the per-record outcome of a collection insert.
type RecordResult struct {
	ID      string
	Success bool
	Errors  []string
}

// Option configures the client.
type Option func(*restClient)

// WithRateLimit throttles API calls to rps requests per second, with a
// burst of the integer part of rps (at least 1). Non-positive rates
// leave the client unthrottled.
func WithRateLimit(rps float64) Option {
	return func(c *restClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// restClient wraps go-salesforce/v3. The library does not take a
// context, so cancellation only covers the limiter wait, not the
// in-flight HTTP call.
type restClient struct {
	api     *salesforce.Salesforce
	limiter *rate.Limiter
}

// NewClient wraps an authenticated go-salesforce instance.
func NewClient(api *salesforce.Salesforce, opts ...Option) Client {
	c := &restClient{api: api}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// throttle blocks until the limiter admits one call or ctx is done.
func (c *restClient) throttle(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "salesforce: rate limit")
	}
	return nil
}

func (c *restClient) Query(ctx context.Context, soql string, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	if err := c.api.Query(soql, out); err != nil {
		return eris.Wrap(err, "salesforce: query")
	}
	return nil
}

func (c *restClient) InsertOne(ctx context.Context, object string, record map[string]any) (string, error) {
	if err := c.throttle(ctx); err != nil {
		return "", err
	}
	result, err := c.api.InsertOne(object, record)
	if err != nil {
		return "", eris.Wrapf(err, "salesforce: insert %s", object)
	}
	if !result.Success {
		return "", eris.New(fmt.Sprintf("salesforce: insert %s failed: %v", object, result.Errors))
	}
	return result.Id, nil
}

func (c *restClient) InsertCollection(ctx context.Context, object string, records []map[string]any) ([]RecordResult, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	res, err := c.api.InsertCollection(object, records, maxBatchSize)
	if err != nil {
		return nil, eris.Wrapf(err, "salesforce: insert collection %s", object)
	}
	return recordResults(res), nil
}

// recordResults flattens the library's per-record results, keeping only
// the error messages.
func recordResults(res salesforce.SalesforceResults) []RecordResult {
	out := make([]RecordResult, len(res.Results))
	for i, r := range res.Results {
		rr := RecordResult{ID: r.Id, Success: r.Success}
		for _, e := range r.Errors {
			rr.Errors = append(rr.Errors, e.Message)
		}
		out[i] = rr
	}
	return out
}
