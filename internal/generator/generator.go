// Package generator is the boundary to the chapter/persona generation
// service. Failures degrade to built-in defaults: session start must never
// depend on this service being reachable.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"coderoom/internal/models"
)

// Client calls the generation service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewFromEnv builds a client from GENERATOR_URL. An empty URL yields a client
// whose calls always fall back.
func NewFromEnv() *Client {
	return &Client{
		BaseURL:    os.Getenv("GENERATOR_URL"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Topic       string `json:"topic"`
	UserDetails string `json:"user_details"`
}

type chaptersResponse struct {
	Chapters []models.Chapter `json:"chapters"`
}

// Chapters requests a learning journey for the topic.
func (c *Client) Chapters(ctx context.Context, topic, userDetails string) ([]models.Chapter, error) {
	var out chaptersResponse
	if err := c.post(ctx, "/chapters", topic, userDetails, &out); err != nil {
		return nil, err
	}
	return out.Chapters, nil
}

// Personas requests teacher personas for the topic.
func (c *Client) Personas(ctx context.Context, topic, userDetails string) (models.TeacherPersonas, error) {
	var out models.TeacherPersonas
	if err := c.post(ctx, "/teacher_persona", topic, userDetails, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, topic, userDetails string, out any) error {
	if c.BaseURL == "" {
		return fmt.Errorf("generator: no service URL configured")
	}
	if userDetails == "" {
		userDetails = "Default user details"
	}

	body, err := json.Marshal(generateRequest{Topic: topic, UserDetails: userDetails})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("generator error %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
