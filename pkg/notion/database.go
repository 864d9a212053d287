package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches every page of a Notion database, following pagination
// cursors until the API reports no more results. The filter's Filter, Sorts
// and PageSize carry over to each request; throttling is the Client's job.
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "notion: query all cancelled")
		}

		resp, err := c.QueryDatabase(ctx, dbID, pageRequest(filter, cursor))
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}

		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// pageRequest builds the query for one page of results, carrying the caller's
// filter forward and stamping the pagination cursor.
func pageRequest(filter *notionapi.DatabaseQueryRequest, cursor notionapi.Cursor) *notionapi.DatabaseQueryRequest {
	req := &notionapi.DatabaseQueryRequest{StartCursor: cursor}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}
	return req
}
