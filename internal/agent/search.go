package agent

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

const defaultSearchResults = 5

// Searcher returns web search results as prompt-ready text.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type serperClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewSerperClient(apiKey, endpoint string) Searcher {
	return &serperClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	AnswerBox *struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (c *serperClient) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	jsonBody, err := json.Marshal(serperRequest{Query: query, Num: defaultSearchResults})
	if err != nil {
		return "", &Error{Kind: KindSearch, Message: "The web search request could not be built", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &Error{Kind: KindSearch, Message: "The web search request could not be built", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindSearch, Message: "The web search request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if resp.StatusCode != http.StatusOK {
		return "", &Error{
			Kind:    KindSearch,
			Message: "The web search service returned an error",
			Err:     fmt.Errorf("search API error: %s - %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Kind: KindSearch, Message: "The web search response could not be read", Err: err}
	}
	return formatResults(parsed), nil
}

func formatResults(r serperResponse) string {
	var b strings.Builder
	if r.AnswerBox != nil {
		answer := r.AnswerBox.Answer
		if answer == "" {
			answer = r.AnswerBox.Snippet
		}
		if answer != "" {
			fmt.Fprintf(&b, "Answer: %s\n", answer)
		}
	}
	for i, o := range r.Organic {
		if i >= defaultSearchResults {
			break
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", o.Title, o.Snippet, o.Link)
	}
	return strings.TrimSpace(b.String())
}
