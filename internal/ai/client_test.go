package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTopicFor(t *testing.T) {
	if info := TopicFor("Mathematics"); !strings.Contains(info.Context, "mathematics teacher") {
		t.Errorf("Mathematics framing missing: %q", info.Context)
	}
	cs := Topics["Computer Science"]
	if info := TopicFor("Underwater Basket Weaving"); info != cs {
		t.Error("unknown topic did not fall back to Computer Science")
	}
	if info := TopicFor(""); info != cs {
		t.Error("empty topic did not fall back to Computer Science")
	}
}

func completionsStub(t *testing.T, reply string, capture *ChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "cmpl-1",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func TestTeacherReply(t *testing.T) {
	var got ChatRequest
	srv := completionsStub(t, "Arrays are ordered boxes.", &got)
	defer srv.Close()
	SetBaseURL(srv.URL)

	reply, err := TeacherReply(context.Background(), "Professor Pixel", "Computer Science", "What is an array?")
	if err != nil {
		t.Fatalf("TeacherReply: %v", err)
	}
	if reply != "Arrays are ordered boxes." {
		t.Errorf("reply = %q", reply)
	}

	if got.Model != DefaultModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultModel)
	}
	if got.Temperature != 0.7 || got.MaxTokens != 500 || got.PresencePenalty != 0.2 || got.FrequencyPenalty != 0.3 {
		t.Errorf("sampling params = %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("sent %d messages, want system+user", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || !strings.Contains(got.Messages[0].Content, "Professor Pixel") {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || !strings.Contains(got.Messages[1].Content, "What is an array?") {
		t.Errorf("user message = %+v", got.Messages[1])
	}
}

func TestTeacherReplyEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "cmpl-2", "choices": []any{}})
	}))
	defer srv.Close()
	SetBaseURL(srv.URL)

	reply, err := TeacherReply(context.Background(), "Professor Pixel", "Computer Science", "Hello?")
	if err != nil {
		t.Fatalf("TeacherReply: %v", err)
	}
	if !strings.Contains(reply, "trouble formulating") {
		t.Errorf("reply = %q, want the apology fallback", reply)
	}
}

func TestGenerateTextProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()
	SetBaseURL(srv.URL)

	_, err := GenerateText(context.Background(), "", []ChatMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("provider error not surfaced")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want the status code", err)
	}
}
