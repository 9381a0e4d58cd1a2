package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListMessages fetches the message list for one conversation. The nexus
// API keys messages on the conversation's contact URN and start time.
// A response without a results field yields an empty list.
func (c *Client) ListMessages(ctx context.Context, conv Conversation) ([]Message, error) {
	endpoint := fmt.Sprintf("%s/api/%s/conversations/", c.nexusBaseURL, c.projectUUID)
	params := url.Values{}
	params.Set("start", conv.CreatedOn)
	params.Set("contact_urn", conv.ContactURN)

	var pg messagesPage
	if err := c.getJSON(ctx, EndpointMessages, endpoint, params, &pg); err != nil {
		return nil, err
	}
	return pg.Results, nil
}

// AgentMessages filters a message list to the turns originated by the
// automated agent. Only these carry traces.
func AgentMessages(messages []Message) []Message {
	var agents []Message
	for _, m := range messages {
		if m.SourceType == SourceTypeAgent {
			agents = append(agents, m)
		}
	}
	return agents
}
