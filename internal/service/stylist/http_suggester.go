package stylist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// HTTPSuggester asks an OpenAI compatible chat completions endpoint for an
// outfit in JSON mode.
type HTTPSuggester struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	timeout     time.Duration
	http        *http.Client
	log         *logger.Logger
}

// NewHTTPSuggester creates a new chat completions suggester.
func NewHTTPSuggester(cfg *config.SuggesterConfig, log *logger.Logger) *HTTPSuggester {
	return &HTTPSuggester{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout(),
		http:        &http.Client{},
		log:         log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Name implements Suggester.
func (s *HTTPSuggester) Name() string {
	return "http"
}

// Suggest implements Suggester.
func (s *HTTPSuggester) Suggest(ctx context.Context, req *Request) (*Suggestion, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          s.model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(req)}},
		Temperature:    s.temperature,
		MaxTokens:      1024,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call suggester: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read suggester response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggester returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode suggester response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("suggester returned no choices")
	}

	s.log.Debug().Str("model", s.model).Int("inventory", len(req.Inventory)).Msg("Suggester answered")

	return ParseSuggestion([]byte(chat.Choices[0].Message.Content))
}

func buildPrompt(req *Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a fashion stylist. Build one outfit for the %s season in a %s style", req.Season, req.Style)
	if req.Occasion != "" {
		fmt.Fprintf(&b, " for this occasion: %s", req.Occasion)
	}
	b.WriteString(" using only the wardrobe below.\n\nRULES:\n")
	if req.OutfitType == OutfitDress {
		b.WriteString("1. Pick a dress as top_id, leave bottom_id null, and pick shoes.\n")
	} else {
		b.WriteString("1. Pick a top, a bottom and shoes.\n")
	}
	b.WriteString("2. Also pick a matching accessory as accessory_id, or null if none fits.\n")
	b.WriteString("3. Answer with JSON only.\n\nWARDROBE:\n")
	b.WriteString(InventoryText(req.Inventory))
	b.WriteString("\nJSON FORMAT:\n")
	b.WriteString(`{"top_id": 123, "bottom_id": 456, "shoe_id": 789, "accessory_id": 101, "message": "short style note"}`)
	return b.String()
}
