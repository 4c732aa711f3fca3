package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"coderoom/internal/models"
	"coderoom/internal/storage"
)

type generateRequest struct {
	Topic       string `json:"topic"`
	UserDetails string `json:"user_details"`
}

type generateResponse struct {
	Chapters []models.Chapter       `json:"chapters"`
	Teachers models.TeacherPersonas `json:"teachers"`
	Fallback bool                   `json:"fallback"`
}

// Generate asks the generation service for chapters and teacher personas for
// the chosen topic, persists the answers, and rebinds the room's teachers.
// Either call failing degrades to built-in content: starting the room never
// depends on the service being up.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Topic is required"})
		return
	}

	if err := storage.SetString(storage.KeyStudyTopic, req.Topic); err != nil {
		slog.Error("failed to persist topic", "error", err)
	}
	if err := storage.SetString(storage.KeyUserDetails, req.UserDetails); err != nil {
		slog.Error("failed to persist user details", "error", err)
	}

	resp := generateResponse{}

	chapters, err := a.Generator.Chapters(r.Context(), req.Topic, req.UserDetails)
	if err != nil {
		slog.Warn("chapter generation failed, continuing without", "error", err)
		resp.Fallback = true
	} else {
		resp.Chapters = chapters
	}

	personas, err := a.Generator.Personas(r.Context(), req.Topic, req.UserDetails)
	if err != nil {
		slog.Warn("persona generation failed, using built-in teachers", "error", err)
		resp.Fallback = true
	} else if len(personas) > 0 {
		resp.Teachers = personas
		if err := storage.SetJSON(storage.KeyGameTeachers, personas); err != nil {
			slog.Error("failed to persist personas", "error", err)
		}
		if err := a.ReloadCatalog(a.Catalog().Config); err != nil {
			slog.Error("failed to rebuild catalog with personas", "error", err)
		}
	}

	json.NewEncoder(w).Encode(resp)
}
