// Package ai implements the external resume-analysis collaborator against
// an OpenAI-compatible chat-completions endpoint. The engine treats it as
// opaque and possibly slow; no timeout is imposed here beyond the caller's
// context.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

const systemPrompt = `You are a resume-fit evaluator for job applications.

Given a candidate resume and a job posting, respond with ONLY a JSON object:
{"fit_score": <integer 0-100>, "analysis": "<3-5 sentence assessment>", "improvements": ["<concrete suggestion>", ...]}

No markdown, no code fences, no text outside the JSON object.`

// Analyzer implements ports.ResumeAnalyzer.
type Analyzer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewAnalyzer creates an analyzer for the configured endpoint.
func NewAnalyzer(apiKey, baseURL, model string, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
		logger:  logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type analysisPayload struct {
	FitScore     int      `json:"fit_score"`
	Analysis     string   `json:"analysis"`
	Improvements []string `json:"improvements"`
}

// Analyze scores the resume against the job context.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobContext string) (*application.Analysis, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("analyzer is not configured: missing API key")
	}

	userPrompt := fmt.Sprintf("Job posting:\n%s\n\nResume:\n%s", jobContext, resumeText)

	body, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("analyzer HTTP %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("no choices in analyzer response")
	}

	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	// Some models wrap the JSON in a fence no matter what the prompt says.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var payload analysisPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("analyzer returned malformed payload: %w", err)
	}
	if payload.FitScore < 0 {
		payload.FitScore = 0
	}
	if payload.FitScore > 100 {
		payload.FitScore = 100
	}

	return &application.Analysis{
		FitScore:     payload.FitScore,
		Analysis:     payload.Analysis,
		Improvements: payload.Improvements,
	}, nil
}
