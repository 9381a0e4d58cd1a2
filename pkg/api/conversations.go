package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/weni-ai/conversation-analyzer/pkg/logger"
)

// PageFunc receives per-page collection progress: the page number, how
// many conversations that page held, and the running total.
type PageFunc func(page, pageCount, total int)

// ListConversationsPage fetches one page of the conversation listing for
// a date range. Dates are DD-MM-YYYY, passed to the API verbatim.
func (c *Client) ListConversationsPage(ctx context.Context, startDate, endDate string, page int) ([]Conversation, error) {
	endpoint := fmt.Sprintf("%s/api/v1/%s/conversations/", c.billingBaseURL, c.projectUUID)
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("start", startDate)
	params.Set("end", endDate)

	var pg conversationsPage
	if err := c.getJSON(ctx, EndpointConversations, endpoint, params, &pg); err != nil {
		return nil, err
	}
	return pg.Results, nil
}

// CollectConversations walks the listing page by page and returns every
// conversation in the range. The walk ends at the first page with zero
// conversations; the response's next link and count are not trusted.
//
// Conversations are load-bearing for everything downstream, so a network
// failure on any page aborts collection. A malformed page is logged and
// treated as empty, which also ends the walk rather than looping against
// a consistently broken endpoint.
func (c *Client) CollectConversations(ctx context.Context, startDate, endDate string, progress PageFunc) ([]Conversation, error) {
	var all []Conversation
	for page := 1; ; page++ {
		conversations, err := c.ListConversationsPage(ctx, startDate, endDate, page)
		if err != nil {
			if IsDecodeError(err) {
				logger.Warn("conversation page %d was malformed, stopping collection: %v", page, err)
				break
			}
			return nil, fmt.Errorf("failed to fetch conversation page %d: %w", page, err)
		}
		if len(conversations) == 0 {
			break
		}

		all = append(all, conversations...)
		logger.Info("collected %d conversations from page %d", len(conversations), page)
		if progress != nil {
			progress(page, len(conversations), len(all))
		}
	}
	return all, nil
}
