package engine

import (
	"context"
	"sync"

	"github.com/ziadkadry99/finquery/internal/classifier"
	"github.com/ziadkadry99/finquery/internal/providers"
)

// call is one provider dispatch: a slot key and the function that settles it.
type call struct {
	key string
	fn  func(ctx context.Context) providers.Outcome
}

// fanOut dispatches every selected provider call concurrently and waits for
// all of them to settle. One call's failure never cancels another; each
// goroutine writes only its own slot. An empty map means nothing was
// dispatched and the caller should take the direct-answer path.
func (e *Engine) fanOut(ctx context.Context, decision *classifier.RoutingDecision, query string, mode Mode) map[string]providers.Outcome {
	tickers := decision.Entities.Tickers

	if decision.IsComparisonQuery && len(tickers) >= 2 {
		return e.comparisonFanOut(ctx, decision, tickers)
	}

	var ticker string
	if len(tickers) > 0 {
		ticker = tickers[0]
	}
	isNews := decision.IsNewsQuery

	var calls []call

	if decision.Market && ticker != "" {
		calls = append(calls,
			call{"quote", func(ctx context.Context) providers.Outcome {
				return e.market.Quote(ctx, ticker)
			}},
			call{"company_details", func(ctx context.Context) providers.Outcome {
				return e.market.CompanyDetails(ctx, ticker)
			}},
		)
		// News from the market provider is redundant when the research
		// provider's news path already covers it.
		if !isNews {
			calls = append(calls, call{"news", func(ctx context.Context) providers.Outcome {
				return e.market.TickerNews(ctx, ticker, 0)
			}})
		}
	}

	if decision.Fundamentals && ticker != "" {
		calls = append(calls,
			call{"financial_statements", func(ctx context.Context) providers.Outcome {
				return e.fundamentals.Statements(ctx, ticker, "", 0)
			}},
			call{"institutional_ownership", func(ctx context.Context) providers.Outcome {
				return e.fundamentals.Ownership(ctx, ticker)
			}},
			call{"historical_metrics", func(ctx context.Context) providers.Outcome {
				return e.fundamentals.HistoricalMetrics(ctx, ticker)
			}},
		)
	}

	switch {
	case mode == ModeQuick && decision.Search:
		if isNews && (ticker != "" || len(decision.Entities.Topics) > 0) {
			topic := ticker
			if topic == "" {
				topic = decision.Entities.Topics[0]
			}
			calls = append(calls, call{"topic_news", func(ctx context.Context) providers.Outcome {
				return e.research.TopicNews(ctx, topic)
			}})
		} else {
			calls = append(calls, call{"search", func(ctx context.Context) providers.Outcome {
				return e.research.Search(ctx, query, isNews)
			}})
		}
	case mode == ModeDeep && decision.DeepResearch:
		calls = append(calls, call{"deep_research", func(ctx context.Context) providers.Outcome {
			return e.research.DeepResearch(ctx, query)
		}})
	}

	return e.settle(ctx, calls)
}

// comparisonFanOut tries one combined comparison call; when that fails its
// outcome is kept and the fan-out degrades to per-ticker quote and
// statements calls, each isolated from the others.
func (e *Engine) comparisonFanOut(ctx context.Context, decision *classifier.RoutingDecision, tickers []string) map[string]providers.Outcome {
	metrics := decision.Entities.Metrics

	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	combined := e.research.Compare(cctx, tickers, metrics)
	cancel()

	outcomes := map[string]providers.Outcome{"comparison": combined}
	if combined.OK {
		return outcomes
	}

	var calls []call
	for _, t := range tickers {
		ticker := t
		calls = append(calls,
			call{"quote:" + ticker, func(ctx context.Context) providers.Outcome {
				return e.market.Quote(ctx, ticker)
			}},
			call{"financial_statements:" + ticker, func(ctx context.Context) providers.Outcome {
				return e.fundamentals.Statements(ctx, ticker, "", 0)
			}},
		)
	}

	for key, out := range e.settle(ctx, calls) {
		outcomes[key] = out
	}
	return outcomes
}

// settle runs the calls concurrently and collects every outcome. Each call
// gets its own timeout so the full set settles in bounded time.
func (e *Engine) settle(ctx context.Context, calls []call) map[string]providers.Outcome {
	if len(calls) == 0 {
		return map[string]providers.Outcome{}
	}

	results := make([]providers.Outcome, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func(i int, c call) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
			defer cancel()
			results[i] = c.fn(cctx)
		}(i, c)
	}
	wg.Wait()

	outcomes := make(map[string]providers.Outcome, len(calls))
	for i, c := range calls {
		outcomes[c.key] = results[i]
	}
	return outcomes
}
