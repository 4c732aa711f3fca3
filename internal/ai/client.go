// Package ai is the boundary to the text-generation provider. It speaks the
// OpenAI-style chat-completions protocol over plain net/http.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

var (
	apiKey  string
	baseURL = "https://api.openai.com/v1"
)

// DefaultModel used for teacher chat.
const DefaultModel = "gpt-3.5-turbo"

// Init reads provider settings from the environment.
func Init() {
	apiKey = os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Println("WARNING: OPENAI_API_KEY not set")
	}
	if u := os.Getenv("OPENAI_BASE_URL"); u != "" {
		baseURL = u
	}
}

// SetBaseURL overrides the provider endpoint. Used by tests.
func SetBaseURL(u string) { baseURL = u }

// ChatMessage for the completions API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest to the provider.
type ChatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

// ChatResponse from the provider.
type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// TopicInfo is the prompt framing for one study topic.
type TopicInfo struct {
	Context       string
	InitialPrompt string
}

// Topics maps study topics to their prompt framing. Unknown topics fall back
// to Computer Science.
var Topics = map[string]TopicInfo{
	"Computer Science": {
		Context: `You are an expert computer science teacher who makes learning fun and engaging.
You often use analogies, examples, and sometimes even haikus or creative explanations to make concepts clear.
Your responses should be informative yet accessible, mixing technical accuracy with engaging delivery.
You can cover topics from basic programming to advanced computer science concepts.`,
		InitialPrompt: `As a computer science teacher, help the student understand the concepts clearly and engagingly.
Use examples when helpful, and make sure to break down complex topics into digestible parts.`,
	},
	"Mathematics": {
		Context: `You are an enthusiastic mathematics teacher who loves making math accessible and interesting.
You use real-world examples, visual explanations, and sometimes playful approaches to explain mathematical concepts.
Your goal is to help students not just learn the procedures, but understand the underlying concepts.`,
		InitialPrompt: `As a mathematics teacher, guide the student through mathematical concepts with clarity and enthusiasm.
Use practical examples and step-by-step explanations when needed.`,
	},
}

// TopicFor returns the prompt framing for a topic, defaulting to Computer
// Science for anything unrecognized.
func TopicFor(topic string) TopicInfo {
	if info, ok := Topics[topic]; ok {
		return info
	}
	return Topics["Computer Science"]
}

// GenerateText makes a non-streaming chat completion.
func GenerateText(ctx context.Context, model string, messages []ChatMessage) (*ChatResponse, error) {
	if model == "" {
		model = DefaultModel
	}

	req := ChatRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      0.7,
		MaxTokens:        500,
		PresencePenalty:  0.2,
		FrequencyPenalty: 0.3,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &chatResp, nil
}

// TeacherReply asks the provider for a teacher-persona reply to one student
// message, framed by the topic's prompts.
func TeacherReply(ctx context.Context, teacherName, topic, userMsg string) (string, error) {
	info := TopicFor(topic)
	messages := []ChatMessage{
		{
			Role:    "system",
			Content: fmt.Sprintf("%s\nYour name is %s. Maintain a supportive and encouraging tone.", info.Context, teacherName),
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("%s\n\nStudent's message: %s", info.InitialPrompt, userMsg),
		},
	}

	resp, err := GenerateText(ctx, DefaultModel, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "I apologize, but I'm having trouble formulating a response.", nil
	}
	return resp.Choices[0].Message.Content, nil
}
