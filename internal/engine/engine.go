// Package engine is the query orchestration core: it classifies a query,
// fans out to the selected data providers concurrently, merges the settled
// outcomes into one conversational answer, and maintains bounded per-session
// history across turns.
package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/finquery/internal/llm"
	"github.com/ziadkadry99/finquery/internal/providers"
	"github.com/ziadkadry99/finquery/internal/querylog"
	"github.com/ziadkadry99/finquery/internal/session"
)

// DefaultCallTimeout bounds each provider call so a slow provider settles
// as a transient failure instead of stalling the fan-out.
const DefaultCallTimeout = 25 * time.Second

// Deps are the collaborators an Engine is built from. QueryLog is optional;
// everything else is required.
type Deps struct {
	Sessions     *session.Store
	Classifier   queryClassifier
	Market       marketAPI
	Fundamentals fundamentalsAPI
	Research     researchAPI
	AI           llm.Provider
	Model        string
	CallTimeout  time.Duration
	QueryLog     *querylog.Store
}

// Engine orchestrates query handling end to end.
type Engine struct {
	sessions     *session.Store
	classifier   queryClassifier
	market       marketAPI
	fundamentals fundamentalsAPI
	research     researchAPI
	ai           llm.Provider
	model        string
	callTimeout  time.Duration
	queryLog     *querylog.Store
}

// New creates an Engine from its collaborators.
func New(deps Deps) *Engine {
	if deps.CallTimeout <= 0 {
		deps.CallTimeout = DefaultCallTimeout
	}
	return &Engine{
		sessions:     deps.Sessions,
		classifier:   deps.Classifier,
		market:       deps.Market,
		fundamentals: deps.Fundamentals,
		research:     deps.Research,
		ai:           deps.AI,
		model:        deps.Model,
		callTimeout:  deps.CallTimeout,
		queryLog:     deps.QueryLog,
	}
}

// HandleQuery answers one query in the context of its session. An empty
// sessionID gets a freshly generated one, returned in the Answer.
//
// The user message is appended before classification, so a classification
// failure still leaves the user's turn in the session.
func (e *Engine) HandleQuery(ctx context.Context, query string, mode Mode, sessionID string) (*Answer, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if mode == "" {
		mode = ModeQuick
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	start := time.Now()

	history := toLLMMessages(e.sessions.History(sessionID))
	e.sessions.Append(sessionID, llm.RoleUser, query)

	decision, err := e.classifier.Classify(ctx, query, history)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	outcomes := e.fanOut(ctx, decision, query, mode)

	var (
		answer    string
		citations []string
		resp      *llm.CompletionResponse
	)
	if len(outcomes) == 0 {
		resp, err = e.directAnswer(ctx, query, history)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
		}
		answer = resp.Content
	} else {
		resp, err = e.synthesize(ctx, outcomes, query, history)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
		}
		answer = resp.Content
		citations = collectCitations(outcomes)
	}

	e.sessions.Append(sessionID, llm.RoleAssistant, answer)

	suggestions := e.suggestions(ctx, toLLMMessages(e.sessions.History(sessionID)))

	e.record(ctx, querylog.Entry{
		SessionID:    sessionID,
		Query:        query,
		Mode:         string(mode),
		Answer:       answer,
		Providers:    providerNames(outcomes),
		LatencyMS:    time.Since(start).Milliseconds(),
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	})

	return &Answer{
		Answer:      answer,
		SessionID:   sessionID,
		Citations:   citations,
		Suggestions: suggestions,
	}, nil
}

// TopicNews answers "what is the latest about {topic}" through the research
// provider's news path and records the exchange in the session.
func (e *Engine) TopicNews(ctx context.Context, topic, sessionID string) (*TopicNewsResult, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	e.sessions.Append(sessionID, llm.RoleUser, fmt.Sprintf("What are the latest news about %s?", topic))

	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	out := e.research.TopicNews(cctx, topic)
	cancel()
	if !out.OK {
		return nil, fmt.Errorf("fetching news for %q: %s", topic, out.ErrMsg)
	}
	news, ok := out.Payload.(providers.NewsResult)
	if !ok {
		return nil, fmt.Errorf("fetching news for %q: unexpected payload %T", topic, out.Payload)
	}

	e.sessions.Append(sessionID, llm.RoleAssistant, news.Content)

	suggestions := e.suggestions(ctx, toLLMMessages(e.sessions.History(sessionID)))

	return &TopicNewsResult{
		Topic:       topic,
		SessionID:   sessionID,
		Answer:      news.Content,
		Citations:   news.Citations,
		Sentiment:   news.Sentiment,
		Suggestions: suggestions,
		Timestamp:   news.Timestamp,
	}, nil
}

// ClearSession empties and removes the session. Unknown ids return
// ErrSessionNotFound.
func (e *Engine) ClearSession(sessionID string) error {
	if !e.sessions.Clear(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}

// record logs the query best-effort; logging problems never affect the
// answer.
func (e *Engine) record(ctx context.Context, entry querylog.Entry) {
	if e.queryLog == nil {
		return
	}
	if err := e.queryLog.Record(ctx, entry, e.model); err != nil {
		log.Printf("engine: query log: %v", err)
	}
}

func collectCitations(outcomes map[string]providers.Outcome) []string {
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var citations []string
	for _, k := range keys {
		citations = append(citations, outcomes[k].Citations...)
	}
	return citations
}

func providerNames(outcomes map[string]providers.Outcome) []string {
	names := make([]string, 0, len(outcomes))
	for k := range outcomes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
