package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"coderoom/internal/ai"
)

// chatRequest is what the room UI sends when the player talks to a teacher.
type chatRequest struct {
	TeacherName string `json:"teacher_name"`
	Topic       string `json:"topic"`
	UserMsg     string `json:"user_msg"`
}

// ChatWithTeacher proxies one student message to the text-generation provider
// and returns the teacher's reply. Pure pass-through: no session state is
// involved, and provider failures surface as a generic server error.
func (a *App) ChatWithTeacher(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Missing required fields"})
		return
	}

	if strings.TrimSpace(req.TeacherName) == "" ||
		strings.TrimSpace(req.Topic) == "" ||
		strings.TrimSpace(req.UserMsg) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Missing required fields"})
		return
	}

	reply, err := ai.TeacherReply(r.Context(), req.TeacherName, req.Topic, req.UserMsg)
	if err != nil {
		slog.Error("chat_with_teacher failed", "teacher", req.TeacherName, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"teacher_response": map[string]string{
			"teacher_response": reply,
		},
	})
}
