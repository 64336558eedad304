package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const systemPrompt = "You are a document-grounded question answering " +
	"assistant. Answer strictly from the provided document excerpts. If the " +
	"document does not contain the information, say that the document does " +
	"not answer the question instead of guessing. When you answer, mention " +
	"the [Evidence N] labels you relied on."

// Client calls an OpenAI-compatible chat-completions API to generate
// grounded answers. Construct once at process start and share.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

// Config configures the chat-completions client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewClient creates the client, reading the API key from the environment
// variable named in APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.15
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: t},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate answers the question from the retrieved context chunks. All
// failures come back as *GenerationError; the call is never retried here.
func (c *Client) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	body := map[string]any{
		"model":       c.model,
		"temperature": c.temperature,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(question, contextChunks)},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", genErr("encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", genErr("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", genErr("call", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", genErr("read response", err)
	}
	if resp.StatusCode >= 300 {
		return "", genErr("call", fmt.Errorf("status %s", resp.Status))
	}

	var out struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", genErr("decode response", err)
	}
	if len(out.Choices) == 0 {
		return "", genErr("decode response", errors.New("no choices returned"))
	}
	answer := strings.TrimSpace(out.Choices[0].Message.Content)
	if answer == "" {
		return "", genErr("decode response", errors.New("empty answer"))
	}
	return answer, nil
}

// userPrompt numbers the context chunks as evidence blocks so the model can
// cite them back.
func userPrompt(question string, contextChunks []string) string {
	var b strings.Builder
	b.WriteString("Below are excerpts from a single document.\n\n")
	for i, chunk := range contextChunks {
		fmt.Fprintf(&b, "[Evidence %d]\n%s\n\n", i+1, chunk)
	}
	b.WriteString("[Question]\n")
	b.WriteString(question)
	b.WriteString("\n\n[Instructions]\n")
	b.WriteString("1) Answer in five sentences or fewer.\n")
	b.WriteString("2) Only use the evidence blocks above.\n")
	b.WriteString("3) If the evidence is insufficient, say the document does not answer the question.\n")
	b.WriteString("4) End with the evidence numbers you used, e.g. (Evidence 1, 3).\n")
	return b.String()
}
