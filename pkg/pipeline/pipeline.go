// Package pipeline drives a full analysis run: collect conversations
// for the date range, walk their agent messages, classify every trace
// record, and fold the results into one aggregation state.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/weni-ai/conversation-analyzer/pkg/analytics"
	"github.com/weni-ai/conversation-analyzer/pkg/api"
	"github.com/weni-ai/conversation-analyzer/pkg/logger"
	"github.com/weni-ai/conversation-analyzer/pkg/trace"
)

// Fetcher is the API surface the pipeline consumes. *api.Client
// implements it; tests substitute their own.
type Fetcher interface {
	CollectConversations(ctx context.Context, startDate, endDate string, progress api.PageFunc) ([]api.Conversation, error)
	ListMessages(ctx context.Context, conv api.Conversation) ([]api.Message, error)
	ListTraces(ctx context.Context, messageID int64) ([]json.RawMessage, error)
}

// Summary is the run accounting reported alongside the aggregation.
// Skipped counts keep partial results visible instead of silent.
type Summary struct {
	ConversationsProcessed int
	ConversationsSkipped   int
	AgentMessagesProcessed int
	AgentMessagesSkipped   int
	TraceRecordsClassified int
	TraceRecordsSkipped    int
}

// Run executes the analysis over the date range. The returned state
// and summary are always non-nil: on cancellation or a fatal error
// mid-run they carry whatever was aggregated up to that point, so the
// caller can still render partial results.
//
// Failures on a single conversation, message, or trace record are
// logged, counted, and skipped. Only conversation collection,
// authorization failures, and cancellation abort the run.
func Run(ctx context.Context, f Fetcher, startDate, endDate string, out io.Writer) (*analytics.State, *Summary, error) {
	if out == nil {
		out = io.Discard
	}
	r := &runner{
		fetch: f,
		state: analytics.NewState(),
		sum:   &Summary{},
		out:   out,
	}
	err := r.run(ctx, startDate, endDate)
	return r.state, r.sum, err
}

type runner struct {
	fetch Fetcher
	state *analytics.State
	sum   *Summary
	out   io.Writer
}

func (r *runner) run(ctx context.Context, startDate, endDate string) error {
	conversations, err := r.fetch.CollectConversations(ctx, startDate, endDate, func(page, pageCount, total int) {
		fmt.Fprintf(r.out, "Collected %d conversations from page %d\n", pageCount, page)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Total conversations collected: %d\n", len(conversations))

	if len(conversations) == 0 {
		fmt.Fprintln(r.out, "No conversations found for the specified date range.")
		return nil
	}

	total := len(conversations)
	for i, conv := range conversations {
		// Cancellation is honored between conversations so completed
		// work survives an interrupt.
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled after %d/%d conversations", i, total)
			return err
		}

		fmt.Fprintf(r.out, "\nProcessing conversation %d/%d (ID: %d)\n", i+1, total, conv.ID)
		if err := r.processConversation(ctx, conv); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.out, "\nProcessing complete!\n")
	fmt.Fprintf(r.out, "Total conversations processed: %d\n", r.sum.ConversationsProcessed)
	fmt.Fprintf(r.out, "Total agent messages processed: %d\n", r.sum.AgentMessagesProcessed)
	return nil
}

// processConversation fetches a conversation's messages and folds the
// traces of its agent messages. A failed message fetch skips the
// conversation; the returned error is non-nil only for failures that
// must abort the run.
func (r *runner) processConversation(ctx context.Context, conv api.Conversation) error {
	msgs, err := r.fetch.ListMessages(ctx, conv)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		r.sum.ConversationsSkipped++
		logger.Warn("skipping conversation %d: failed to fetch messages: %v", conv.ID, err)
		fmt.Fprintf(r.out, "  No messages found for conversation %d\n", conv.ID)
		return nil
	}

	agentMsgs := api.AgentMessages(msgs)
	fmt.Fprintf(r.out, "  Found %d total messages, %d agent messages\n", len(msgs), len(agentMsgs))
	r.sum.ConversationsProcessed++

	for j, msg := range agentMsgs {
		fmt.Fprintf(r.out, "    Processing agent message %d/%d (ID: %d)\n", j+1, len(agentMsgs), msg.ID)
		if err := r.processMessage(ctx, conv, msg); err != nil {
			return err
		}
	}
	return nil
}

// processMessage fetches one agent message's traces and classifies
// each record. A failed trace fetch skips the message; an undecodable
// record skips just that record.
func (r *runner) processMessage(ctx context.Context, conv api.Conversation, msg api.Message) error {
	records, err := r.fetch.ListTraces(ctx, msg.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		r.sum.AgentMessagesSkipped++
		logger.Warn("skipping message %d in conversation %d: failed to fetch traces: %v", msg.ID, conv.ID, err)
		fmt.Fprintf(r.out, "      No traces found for message %d\n", msg.ID)
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintf(r.out, "      No traces found for message %d\n", msg.ID)
		r.sum.AgentMessagesProcessed++
		return nil
	}

	fmt.Fprintf(r.out, "      Found %d trace objects\n", len(records))
	for _, raw := range records {
		ev, err := trace.Classify(raw)
		if err != nil {
			r.sum.TraceRecordsSkipped++
			logger.Warn("skipping trace record for message %d in conversation %d: %v", msg.ID, conv.ID, err)
			continue
		}
		r.state.Fold(ev)
		r.sum.TraceRecordsClassified++
	}
	r.sum.AgentMessagesProcessed++
	return nil
}
