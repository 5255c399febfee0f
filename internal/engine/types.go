package engine

import (
	"context"
	"time"

	"github.com/ziadkadry99/finquery/internal/classifier"
	"github.com/ziadkadry99/finquery/internal/llm"
	"github.com/ziadkadry99/finquery/internal/providers"
	"github.com/ziadkadry99/finquery/internal/session"
)

// Mode selects between a quick search-backed answer and an in-depth
// research answer.
type Mode string

const (
	ModeQuick Mode = "quick"
	ModeDeep  Mode = "deep"
)

// Answer is the result of one handled query.
type Answer struct {
	Answer      string   `json:"answer"`
	SessionID   string   `json:"session_id"`
	Citations   []string `json:"citations,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// TopicNewsResult is the result of a topic-news lookup.
type TopicNewsResult struct {
	Topic       string              `json:"topic"`
	SessionID   string              `json:"session_id"`
	Answer      string              `json:"answer"`
	Citations   []string            `json:"citations"`
	Sentiment   providers.Sentiment `json:"sentiment"`
	Suggestions []string            `json:"suggestions"`
	Timestamp   time.Time           `json:"timestamp"`
}

// The engine depends on capability interfaces rather than the concrete
// clients so tests can stand in fakes.

type marketAPI interface {
	Quote(ctx context.Context, ticker string) providers.Outcome
	CompanyDetails(ctx context.Context, ticker string) providers.Outcome
	TickerNews(ctx context.Context, ticker string, limit int) providers.Outcome
}

type fundamentalsAPI interface {
	Statements(ctx context.Context, ticker, statementType string, years int) providers.Outcome
	Ownership(ctx context.Context, ticker string) providers.Outcome
	HistoricalMetrics(ctx context.Context, ticker string) providers.Outcome
}

type researchAPI interface {
	Search(ctx context.Context, query string, emphasizeRecent bool) providers.Outcome
	DeepResearch(ctx context.Context, query string) providers.Outcome
	Compare(ctx context.Context, tickers, metrics []string) providers.Outcome
	TopicNews(ctx context.Context, topic string) providers.Outcome
}

type queryClassifier interface {
	Classify(ctx context.Context, query string, history []llm.Message) (*classifier.RoutingDecision, error)
}

func toLLMMessages(msgs []session.Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
