// Package classifier turns a natural-language financial query into a
// routing decision: which data providers to call and which entities the
// query is about.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/finquery/internal/llm"
)

const routerSystemPrompt = `You are a financial data router. Your job is to analyze a user query and determine which financial data sources should be called to answer it.
Available sources:
- market: for stock prices, market news, company details, and historical price data
- fundamentals: for financial statements, institutional ownership, and historical metrics
- search: for AI-powered search of financial data, quick answers, and general market information
- deep_research: for in-depth company analysis, detailed comparisons, and comprehensive research

Also determine if this is a comparison query where the user wants to compare multiple companies or assets.

Return a JSON object with:
1. Boolean values "market", "fundamentals", "search", "deep_research" indicating whether each source should be called
2. An "is_comparison_query" boolean indicating if this is a comparison query
3. An "is_news_query" boolean indicating if this is primarily a news-focused query
4. An "entities" object with "tickers", "topics" and "metrics" string arrays for any detected stock tickers, financial topics, or metrics to compare`

// Entities holds what the query is about.
type Entities struct {
	Tickers []string `json:"tickers"`
	Topics  []string `json:"topics"`
	Metrics []string `json:"metrics"`
}

// RoutingDecision says which providers to dispatch and carries the
// extracted entities.
type RoutingDecision struct {
	Market            bool     `json:"market"`
	Fundamentals      bool     `json:"fundamentals"`
	Search            bool     `json:"search"`
	DeepResearch      bool     `json:"deep_research"`
	IsComparisonQuery bool     `json:"is_comparison_query"`
	IsNewsQuery       bool     `json:"is_news_query"`
	Entities          Entities `json:"entities"`
}

var comparisonKeywords = []string{"compare", "comparison", "versus", "vs", "vs.", "difference between"}

var newsKeywords = []string{"news", "latest", "recent", "happening"}

// Classifier routes queries using an AI provider in JSON mode.
type Classifier struct {
	provider llm.Provider
	model    string
}

// New creates a classifier backed by the given provider and model.
func New(provider llm.Provider, model string) *Classifier {
	return &Classifier{provider: provider, model: model}
}

// Classify analyzes the query in the context of recent conversation history
// and returns a routing decision. Malformed model output is an error; keyword
// backstops only ever enable flags on top of what the model decided.
func (c *Classifier) Classify(ctx context.Context, query string, history []llm.Message) (*RoutingDecision, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: routerSystemPrompt}}

	// Only the last few messages matter for routing context.
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query})

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("classify query: %w", err)
	}

	var decision RoutingDecision
	if err := json.Unmarshal([]byte(resp.Content), &decision); err != nil {
		return nil, fmt.Errorf("classify query: malformed routing decision: %w", err)
	}

	applyBackstops(&decision, query)
	return &decision, nil
}

// applyBackstops covers routing flags the model tends to miss. Comparison
// queries always go through deep research.
func applyBackstops(d *RoutingDecision, query string) {
	lower := strings.ToLower(query)

	if !d.IsComparisonQuery {
		for _, kw := range comparisonKeywords {
			if strings.Contains(lower, kw) {
				d.IsComparisonQuery = true
				d.DeepResearch = true
				break
			}
		}
	}

	if !d.IsNewsQuery {
		for _, kw := range newsKeywords {
			if strings.Contains(lower, kw) {
				d.IsNewsQuery = true
				break
			}
		}
	}
}
