package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatClient_Complete(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "  # Common cold  "}}]
		}`))
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{BaseURL: srv.URL, APIKey: "key", Model: "test-model", Temperature: 0.7})
	out, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "# Common cold" {
		t.Fatalf("out=%q", out)
	}
	if gotAuth != "Bearer key" || gotModel != "test-model" {
		t.Fatalf("auth=%q model=%q", gotAuth, gotModel)
	}
}

func TestChatClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{BaseURL: srv.URL, APIKey: "key", Model: "m"})
	_, err := c.Complete(context.Background(), "sys", "user")
	e, ok := AsError(err)
	if !ok || e.Kind != KindCompletion {
		t.Fatalf("err=%v", err)
	}
}

func TestSerper_Search(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		var req serperRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotQuery = req.Query
		_, _ = w.Write([]byte(`{"organic":[{"title":"Flu","link":"https://a","snippet":"Influenza is viral"}]}`))
	}))
	defer srv.Close()

	out, err := NewSerperClient("sk", srv.URL).Search(context.Background(), "fever")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotKey != "sk" || gotQuery != "fever" {
		t.Fatalf("key=%q query=%q", gotKey, gotQuery)
	}
	if out != "- Flu: Influenza is viral (https://a)" {
		t.Fatalf("out=%q", out)
	}
}

func TestSerper_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewSerperClient("bad", srv.URL).Search(context.Background(), "fever")
	if e, ok := AsError(err); !ok || e.Kind != KindSearch {
		t.Fatalf("err=%v", err)
	}
}

func TestSerper_EmptyQuerySkipsCall(t *testing.T) {
	out, err := NewSerperClient("k", "http://127.0.0.1:0").Search(context.Background(), "  ")
	if err != nil || out != "" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestSerper_BadEndpoint(t *testing.T) {
	_, err := NewSerperClient("k", "://no-scheme").Search(context.Background(), "fever")
	if e, ok := AsError(err); !ok || e.Kind != KindSearch {
		t.Fatalf("err=%v", err)
	}
}
