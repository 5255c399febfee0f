package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ziadkadry99/finquery/internal/llm"
	"github.com/ziadkadry99/finquery/internal/providers"
)

// synthesize merges all settled provider outcomes, failures included, into
// one conversational answer.
func (e *Engine) synthesize(ctx context.Context, outcomes map[string]providers.Outcome, query string, history []llm.Message) (*llm.CompletionResponse, error) {
	var sb strings.Builder
	sb.WriteString("Here are the responses from various financial data providers:\n\n")

	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		serialized, err := json.MarshalIndent(outcomes[k], "", "  ")
		if err != nil {
			serialized = []byte(fmt.Sprintf("%+v", outcomes[k]))
		}
		fmt.Fprintf(&sb, "%s outcome:\n%s\n\n", k, serialized)
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: formatterSystemPrompt}}
	if len(history) > 3 {
		history = history[len(history)-3:]
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf("Original user query: %q\n\n%s\nPlease provide a comprehensive, conversational response to the user's query based on this data.",
			query, sb.String()),
	})

	resp, err := e.ai.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting combined response: %w", err)
	}
	return resp, nil
}

// directAnswer answers the query from general knowledge when no provider
// was dispatched.
func (e *Engine) directAnswer(ctx context.Context, query string, history []llm.Message) (*llm.CompletionResponse, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: financialSystemPrompt}}
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query})

	resp, err := e.ai.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("direct answer: %w", err)
	}
	return resp, nil
}

// suggestions derives 3-4 follow-up questions from the updated history.
// Any failure falls back to the fixed defaults; it never affects the answer.
func (e *Engine) suggestions(ctx context.Context, history []llm.Message) []string {
	if len(history) < 2 {
		return defaultSuggestions
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: suggestionsSystemPrompt}}
	if len(history) > 6 {
		history = history[len(history)-6:]
	}
	messages = append(messages, history...)

	resp, err := e.ai.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
		JSONMode:    true,
	})
	if err != nil {
		log.Printf("engine: follow-up suggestions: %v", err)
		return defaultSuggestions
	}

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil || len(parsed.Questions) == 0 {
		return defaultSuggestions
	}
	return parsed.Questions
}
