package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	searchSystemPrompt = "You are a financial assistant with access to real-time web search. Provide accurate, up-to-date information about financial markets, stocks, companies, and economic news. Include relevant data points and cite your sources."

	deepResearchSystemPrompt = "You are a financial analyst specializing in deep research and comprehensive analysis. Provide detailed, well-structured information about companies, markets, and financial trends. Include quantitative data, qualitative analysis, and cite your sources."

	comparisonSystemPrompt = "You are a financial analyst specializing in company comparisons. Provide detailed, data-driven comparisons between companies based on specified metrics. Include quantitative data, qualitative analysis, and cite your sources."

	topicNewsSystemPrompt = "You are a financial news analyst with access to real-time web search. Provide the latest news and market sentiment about financial topics. Focus on factual reporting, include relevant data points, and cite your sources."
)

// SearchResult is the payload of a search or deep-research call.
type SearchResult struct {
	Content   string    `json:"content"`
	Citations []string  `json:"citations"`
	Query     string    `json:"query"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ComparisonResult is the payload of a combined company-comparison call.
type ComparisonResult struct {
	Content   string          `json:"content"`
	Citations []string        `json:"citations"`
	Table     ComparisonTable `json:"comparison_table"`
	Tickers   []string        `json:"tickers"`
	Metrics   []string        `json:"metrics"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewsResult is the payload of a topic-news call.
type NewsResult struct {
	Content   string    `json:"content"`
	Citations []string  `json:"citations"`
	Sentiment Sentiment `json:"sentiment"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
}

// ResearchClient wraps the AI-search provider (chat-completions wire format
// with web search and citations).
type ResearchClient struct {
	baseURL string
	apiKey  string
	sonar   string
	deep    string
	client  *http.Client
}

// NewResearchClient creates a research client. sonarModel serves quick
// searches and news, deepModel serves deep research and comparisons.
func NewResearchClient(baseURL, apiKey, sonarModel, deepModel string, timeout time.Duration) *ResearchClient {
	return &ResearchClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		sonar:   sonarModel,
		deep:    deepModel,
		client:  &http.Client{Timeout: timeout},
	}
}

// Search runs a quick AI-powered search for the query. When emphasizeRecent
// is set the query is steered toward the most recent information.
func (c *ResearchClient) Search(ctx context.Context, query string, emphasizeRecent bool) Outcome {
	enhanced := query
	if emphasizeRecent {
		enhanced = query + " (focus on the most recent information and latest news)"
	}

	content, citations, out := c.complete(ctx, "search", c.sonar, searchSystemPrompt, enhanced, 0.7, 1000)
	if !out.OK {
		return out.withPlaceholder(researchPlaceholder(query))
	}
	return withCitations(Success("search", SearchResult{
		Content:   content,
		Citations: citations,
		Query:     enhanced,
		Source:    "research_search",
		Timestamp: time.Now().UTC(),
	}), citations)
}

// DeepResearch runs an in-depth research pass for the query.
func (c *ResearchClient) DeepResearch(ctx context.Context, query string) Outcome {
	content, citations, out := c.complete(ctx, "deep_research", c.deep, deepResearchSystemPrompt, query, 0.5, 2000)
	if !out.OK {
		return out.withPlaceholder(researchPlaceholder(query))
	}
	return withCitations(Success("deep_research", SearchResult{
		Content:   content,
		Citations: citations,
		Query:     query,
		Source:    "research_deep",
		Timestamp: time.Now().UTC(),
	}), citations)
}

// Compare runs one combined comparison of the given tickers across the given
// metrics. Metrics default to revenue, profit margin and growth.
func (c *ResearchClient) Compare(ctx context.Context, tickers, metrics []string) Outcome {
	if len(metrics) == 0 {
		metrics = []string{"revenue", "profit_margin", "growth"}
	}

	query := fmt.Sprintf(
		"Compare the following companies: %s based on these metrics: %s. Include the most recent financial data and news. Format the comparison in a structured way with sections for each metric.",
		strings.Join(tickers, ", "), strings.Join(metrics, ", "))

	content, citations, out := c.complete(ctx, "comparison", c.deep, comparisonSystemPrompt, query, 0.3, 3000)
	if !out.OK {
		return out.withPlaceholder(researchPlaceholder(query))
	}
	return withCitations(Success("comparison", ComparisonResult{
		Content:   content,
		Citations: citations,
		Table:     ExtractComparisonTable(content, tickers, metrics),
		Tickers:   tickers,
		Metrics:   metrics,
		Timestamp: time.Now().UTC(),
	}), citations)
}

// TopicNews fetches the latest news and market sentiment about a topic.
func (c *ResearchClient) TopicNews(ctx context.Context, topic string) Outcome {
	query := fmt.Sprintf(
		"What are the latest news and current market sentiment about %s? Focus on the most recent developments within the last 24 hours. Include specific data points and market reactions.",
		topic)

	content, citations, out := c.complete(ctx, "topic_news", c.sonar, topicNewsSystemPrompt, query, 0.7, 1500)
	if !out.OK {
		return out.withPlaceholder(researchPlaceholder(query))
	}
	return withCitations(Success("topic_news", NewsResult{
		Content:   content,
		Citations: citations,
		Sentiment: ExtractSentiment(content),
		Topic:     topic,
		Timestamp: time.Now().UTC(),
	}), citations)
}

type researchRequest struct {
	Model       string            `json:"model"`
	Messages    []researchMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}

type researchMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type researchResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Context struct {
				Citations []string `json:"citations"`
			} `json:"context"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// complete issues one chat-completion request. The returned Outcome is only
// meaningful on failure; on success the caller builds its own payload from
// the content and citations.
func (c *ResearchClient) complete(ctx context.Context, provider, model, system, user string, temperature float64, maxTokens int) (string, []string, Outcome) {
	apiReq := researchRequest{
		Model: model,
		Messages: []researchMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", nil, Failure(provider, KindUnknown, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", nil, Failure(provider, KindUnknown, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, Failure(provider, kindForError(err), err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, Failure(provider, KindTransient, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return "", nil, Failure(provider, kindForStatus(resp.StatusCode),
			fmt.Sprintf("research provider returned status %d", resp.StatusCode))
	}

	var apiResp researchResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", nil, Failure(provider, KindUnknown, "research provider returned malformed JSON")
	}
	if len(apiResp.Choices) == 0 {
		return "", nil, Failure(provider, KindUnknown, "research provider returned no choices")
	}

	msg := apiResp.Choices[0].Message
	citations := msg.Context.Citations
	if len(citations) == 0 {
		citations = apiResp.Citations
	}
	return msg.Content, citations, Success(provider, nil)
}

func withCitations(o Outcome, citations []string) Outcome {
	o.Citations = citations
	return o
}

func researchPlaceholder(query string) map[string]any {
	return map[string]any{
		"mock_data": true,
		"query":     query,
		"note":      "placeholder: research provider unavailable",
	}
}
