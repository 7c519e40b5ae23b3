package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emrgen/notes/internal/profile"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 4 << 20
)

const extractPrompt = `You extract the people and topics a personal note talks about.
Answer with a JSON object {"names": [...]} listing each name as written in the note, in order of first appearance.
Only include proper names of people, pets, places, organizations or recurring topics. Answer {"names": []} when there are none.`

const summarizePrompt = `You maintain a relationship profile about %q built only from the user's notes.
Answer with one JSON object with these optional fields:
name, nickname, birthday, age, occupation, location, education, experience, goals, challenges,
background, family, relationshipStatus, additionalNotes (strings) and
interests, hobbies, skills, personalityTraits, affiliations, favoriteBooks, favoriteMovies,
favoriteMusic, achievements, memorableQuotes (arrays of strings).
Use null for anything the notes don't say. Never invent facts.`

// OpenAIConfig configures an OpenAI compatible chat completions endpoint.
type OpenAIConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

var (
	_ Extractor  = (*OpenAI)(nil)
	_ Summarizer = (*OpenAI)(nil)
)

// OpenAI implements both collaborators on top of a chat completions API.
type OpenAI struct {
	cfg     OpenAIConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &OpenAI{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract asks the model for the names mentioned in text.
func (o *OpenAI) Extract(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	answer, err := o.complete(ctx, extractPrompt, text)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Names *[]string `json:"names"`
	}
	if err := json.Unmarshal([]byte(answer), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnusableResponse, err)
	}
	if payload.Names == nil {
		return nil, fmt.Errorf("%w: missing names", ErrUnusableResponse)
	}

	return *payload.Names, nil
}

// Summarize asks the model for a structured profile of name.
func (o *OpenAI) Summarize(ctx context.Context, name string, texts []string) (*profile.Record, error) {
	var user strings.Builder
	for i, text := range texts {
		if i > 0 {
			user.WriteString("\n---\n")
		}
		user.WriteString(text)
	}

	answer, err := o.complete(ctx, fmt.Sprintf(summarizePrompt, name), user.String())
	if err != nil {
		return nil, err
	}

	record, err := profile.ParseRecord([]byte(answer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnusableResponse, err)
	}

	return record, nil
}

func (o *OpenAI) complete(ctx context.Context, system, user string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(o.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}

	start := time.Now()
	res, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	logrus.Debugf("chat completion: status %d in %v", res.StatusCode, time.Since(start))

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		if res.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat completion failed with status %d", res.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", ErrUnusableResponse, err)
	}

	if res.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat completion failed with status %d: %s", res.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed with status %d", res.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrUnusableResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}
