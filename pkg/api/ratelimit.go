package api

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/weni-ai/conversation-analyzer/pkg/config"
)

// Endpoint identifies a rate-limited call site. The conversation listing
// and the trace endpoint have different cost profiles, so each carries
// its own delay rather than sharing a global one.
type Endpoint int

const (
	EndpointConversations Endpoint = iota
	EndpointMessages
	EndpointTraces
)

func (e Endpoint) String() string {
	switch e {
	case EndpointConversations:
		return "conversations"
	case EndpointMessages:
		return "messages"
	case EndpointTraces:
		return "traces"
	default:
		return "unknown"
	}
}

// DelayPolicy maps call sites to the minimum gap between consecutive
// requests. Endpoints absent from the policy are not paced. Injected
// into the client so tests can run with explicit zero delays.
type DelayPolicy map[Endpoint]time.Duration

// DefaultDelayPolicy returns the production pacing: conversation pages
// every 500ms, trace fetches every 200ms, message fetches unpaced.
func DefaultDelayPolicy() DelayPolicy {
	return DelayPolicy{
		EndpointConversations: config.ConversationPageDelay,
		EndpointTraces:        config.TraceFetchDelay,
	}
}

// retryDelay returns the gap between retry attempts for an endpoint.
// Paced endpoints retry at their own cadence; unpaced ones fall back to
// the default so a flapping endpoint is not hammered.
func (p DelayPolicy) retryDelay(ep Endpoint) time.Duration {
	if d, ok := p[ep]; ok {
		return d
	}
	return config.DefaultRetryDelay
}

// limiterSet holds one token bucket per paced endpoint. A fresh bucket
// starts full, so the first request goes out immediately and the delay
// applies before each subsequent one.
type limiterSet struct {
	limiters map[Endpoint]*rate.Limiter
}

func newLimiterSet(policy DelayPolicy) *limiterSet {
	limiters := make(map[Endpoint]*rate.Limiter, len(policy))
	for ep, delay := range policy {
		if delay <= 0 {
			continue
		}
		limiters[ep] = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &limiterSet{limiters: limiters}
}

// wait blocks until the endpoint may issue its next request, honoring
// context cancellation. Unpaced endpoints only check the context.
func (s *limiterSet) wait(ctx context.Context, ep Endpoint) error {
	if lim, ok := s.limiters[ep]; ok {
		return lim.Wait(ctx)
	}
	return ctx.Err()
}
