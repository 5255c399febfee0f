package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// MarketClient wraps the market-data provider (aggregates, reference data,
// ticker news). All operations return an Outcome and never an error.
type MarketClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMarketClient creates a market-data client. The timeout bounds each call
// so a slow provider settles as a transient failure instead of blocking the
// fan-out.
func NewMarketClient(baseURL, apiKey string, timeout time.Duration) *MarketClient {
	return &MarketClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Quote returns recent daily price bars for the ticker. The range defaults
// to the last 30 days ending today, newest first, at most 5 bars.
func (c *MarketClient) Quote(ctx context.Context, ticker string) Outcome {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		url.PathEscape(ticker), start.Format("2006-01-02"), end.Format("2006-01-02"))
	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "desc")
	q.Set("limit", "5")

	return c.get(ctx, "quote", path, q).withPlaceholder(placeholder("quote", ticker))
}

// CompanyDetails returns reference details for the ticker.
func (c *MarketClient) CompanyDetails(ctx context.Context, ticker string) Outcome {
	path := "/v3/reference/tickers/" + url.PathEscape(ticker)
	return c.get(ctx, "company_details", path, nil).withPlaceholder(placeholder("company_details", ticker))
}

// TickerNews returns the latest news articles for the ticker.
// A limit <= 0 defaults to 5.
func (c *MarketClient) TickerNews(ctx context.Context, ticker string, limit int) Outcome {
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", "desc")
	q.Set("sort", "published_utc")

	return c.get(ctx, "news", "/v2/reference/news", q).withPlaceholder(placeholder("news", ticker))
}

func (c *MarketClient) get(ctx context.Context, provider, path string, q url.Values) Outcome {
	if q == nil {
		q = url.Values{}
	}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return Failure(provider, KindUnknown, err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Failure(provider, kindForError(err), err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(provider, KindTransient, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return Failure(provider, kindForStatus(resp.StatusCode),
			fmt.Sprintf("market provider returned status %d", resp.StatusCode))
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return Failure(provider, KindUnknown, "market provider returned malformed JSON")
	}
	return Success(provider, payload)
}

// placeholder is the labeled mock payload attached to unauthorized/not-found
// outcomes so the synthesizer can acknowledge missing data honestly.
func placeholder(provider, ticker string) map[string]any {
	return map[string]any{
		"mock_data": true,
		"ticker":    ticker,
		"note":      fmt.Sprintf("placeholder: %s data unavailable from provider", provider),
	}
}
