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

// Statement endpoints by statement type.
var statementEndpoints = map[string]string{
	"income":  "/financials/income-statements",
	"balance": "/financials/balance-sheets",
	"cash":    "/financials/cash-flow-statements",
}

// FundamentalsClient wraps the fundamentals provider (financial statements,
// institutional ownership, historical metrics).
type FundamentalsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewFundamentalsClient creates a fundamentals client.
func NewFundamentalsClient(baseURL, apiKey string, timeout time.Duration) *FundamentalsClient {
	return &FundamentalsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Statements returns annual financial statements for the ticker.
// statementType defaults to "income" and years to 5.
func (c *FundamentalsClient) Statements(ctx context.Context, ticker, statementType string, years int) Outcome {
	if statementType == "" {
		statementType = "income"
	}
	if years <= 0 {
		years = 5
	}

	endpoint, ok := statementEndpoints[statementType]
	if !ok {
		return Failure("financial_statements", KindUnknown,
			fmt.Sprintf("unknown statement type %q", statementType))
	}

	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("period", "annual")
	q.Set("limit", strconv.Itoa(years))

	out := c.get(ctx, "financial_statements", endpoint, q)
	return out.withPlaceholder(map[string]any{
		"mock_data":      true,
		"ticker":         ticker,
		"statement_type": statementType,
		"statements": []map[string]any{{
			"year":       time.Now().Year() - 1,
			"revenue":    "N/A (placeholder)",
			"net_income": "N/A (placeholder)",
		}},
	})
}

// Ownership returns institutional ownership data for the ticker.
func (c *FundamentalsClient) Ownership(ctx context.Context, ticker string) Outcome {
	q := url.Values{}
	q.Set("ticker", ticker)

	out := c.get(ctx, "institutional_ownership", "/ownership/institutional", q)
	return out.withPlaceholder(map[string]any{
		"mock_data": true,
		"ticker":    ticker,
		"institutions": []map[string]any{{
			"name":   "placeholder institution (data unavailable)",
			"shares": "N/A",
		}},
	})
}

// HistoricalMetrics returns historical financial metrics for the ticker.
func (c *FundamentalsClient) HistoricalMetrics(ctx context.Context, ticker string) Outcome {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("period", "annual")

	out := c.get(ctx, "historical_metrics", "/financial-metrics", q)
	return out.withPlaceholder(map[string]any{
		"mock_data": true,
		"ticker":    ticker,
		"note":      "placeholder: historical metrics unavailable from provider",
	})
}

func (c *FundamentalsClient) get(ctx context.Context, provider, path string, q url.Values) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return Failure(provider, KindUnknown, err.Error())
	}
	req.Header.Set("X-API-KEY", c.apiKey)

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
			fmt.Sprintf("fundamentals provider returned status %d", resp.StatusCode))
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return Failure(provider, KindUnknown, "fundamentals provider returned malformed JSON")
	}
	return Success(provider, payload)
}
