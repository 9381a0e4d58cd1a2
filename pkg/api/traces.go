package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListTraces fetches the raw trace records for one agent message. The
// endpoint returns a bare JSON array. Records are kept raw here so that
// one undecodable record degrades alone during classification instead
// of failing the whole message.
func (c *Client) ListTraces(ctx context.Context, messageID int64) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/agents/traces/", c.nexusBaseURL)
	params := url.Values{}
	params.Set("project_uuid", c.projectUUID)
	params.Set("log_id", strconv.FormatInt(messageID, 10))

	var records []json.RawMessage
	if err := c.getJSON(ctx, EndpointTraces, endpoint, params, &records); err != nil {
		return nil, err
	}
	return records, nil
}
