package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coderoom/internal/ai"
)

func postChat(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/chat_with_teacher", strings.NewReader(body))
	app.ChatWithTeacher(rec, req)
	return rec
}

func TestChatWithTeacherValidation(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"empty body", `{}`},
		{"missing teacher", `{"topic": "Computer Science", "user_msg": "hi"}`},
		{"missing topic", `{"teacher_name": "Professor Pixel", "user_msg": "hi"}`},
		{"missing message", `{"teacher_name": "Professor Pixel", "topic": "Computer Science"}`},
		{"blank fields", `{"teacher_name": " ", "topic": " ", "user_msg": " "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, app, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp map[string]string
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp["error"] != "Missing required fields" {
				t.Errorf("error = %q", resp["error"])
			}
		})
	}
}

func TestChatWithTeacherProviderFailure(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	srv.Close() // connection refused from here on
	ai.SetBaseURL(srv.URL)

	rec := postChat(t, app, `{"teacher_name": "Professor Pixel", "topic": "Computer Science", "user_msg": "hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Internal server error" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestChatWithTeacherSuccess(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "cmpl-1",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Arrays hold ordered values."}},
			},
		})
	}))
	defer srv.Close()
	ai.SetBaseURL(srv.URL)

	rec := postChat(t, app, `{"teacher_name": "Professor Pixel", "topic": "Computer Science", "user_msg": "What is an array?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TeacherResponse struct {
			TeacherResponse string `json:"teacher_response"`
		} `json:"teacher_response"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.TeacherResponse.TeacherResponse != "Arrays hold ordered values." {
		t.Errorf("reply = %q", resp.TeacherResponse.TeacherResponse)
	}
}
