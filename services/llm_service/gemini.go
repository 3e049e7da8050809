package llm_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type GeminiService struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGeminiService(apiURL, apiKey string, logger *slog.Logger) *GeminiService {
	return &GeminiService{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

func (s *GeminiService) Generate(ctx context.Context, prompt string, opts GenerationOptions) ([]Candidate, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}

	url := fmt.Sprintf("%s?key=%s", s.apiURL, s.apiKey)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      opts.Temperature,
			"maxOutputTokens":  opts.MaxOutputTokens,
			"responseMimeType": "text/plain",
		},
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates found in Gemini API response")
	}

	candidates := make([]Candidate, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		if len(c.Content.Parts) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{Text: c.Content.Parts[0].Text})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no text found in Gemini API response")
	}

	s.logger.Debug("Gemini generation complete",
		slog.Int("candidates", len(candidates)),
		slog.Int("prompt_length", len(prompt)))

	return candidates, nil
}
