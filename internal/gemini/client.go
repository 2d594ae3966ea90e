// Package gemini generates text with the Gemini API through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campusboard/server/config"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-1.5-flash"
	defaultAPIVersion = "v1beta"
	defaultTimeout    = 30 * time.Second

	temperature float32 = 0.9
	topP        float32 = 1.0
)

var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
}

// ErrNotConfigured is returned by New when no API key is set.
var ErrNotConfigured = errors.New("gemini api key is not configured")

// Client generates text with a single Gemini model.
type Client struct {
	genai *genai.Client
	model string
}

// New builds a client from cfg. It returns ErrNotConfigured when the API key is empty.
// An empty BaseURL selects the SDK's default endpoint.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimSpace(cfg.BaseURL),
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{genai: client, model: model}, nil
}

func generateConfig() *genai.GenerateContentConfig {
	settings := make([]*genai.SafetySetting, 0, len(safetyCategories))
	for _, category := range safetyCategories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(temperature),
		TopP:           genai.Ptr(topP),
		SafetySettings: settings,
	}
}

// Generate sends prompt to the model and returns the text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig())
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", c.model, err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", errors.New("no candidates returned")
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	if candidate.Content != nil {
		for _, p := range candidate.Content.Parts {
			if p != nil && !p.Thought {
				sb.WriteString(p.Text)
			}
		}
	}
	if sb.Len() == 0 {
		if candidate.FinishReason != "" {
			return "", fmt.Errorf("empty response: finish reason %s", candidate.FinishReason)
		}
		return "", errors.New("empty response")
	}
	return sb.String(), nil
}
