package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Moderation decisions. The upstream classifier answers true (compliant),
// false (violation) or the literal string "unknown"; DecisionUnknown also
// covers transport failures so moderation always fails open.
const (
	DecisionCompliant = "compliant"
	DecisionViolation = "violation"
	DecisionUnknown   = "unknown"
)

// ModerationResult is the classifier's verdict on a piece of text.
type ModerationResult struct {
	Decision       string   `json:"decision"`
	Confidence     float64  `json:"confidence"`
	ViolationTypes []string `json:"violation_types"` // porn, politics, abuse
}

// UnmarshalJSON accepts the classifier's mixed-type decision field:
// true/false booleans or the string "unknown".
func (r *ModerationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Decision       json.RawMessage `json:"decision"`
		Confidence     float64         `json:"confidence"`
		ViolationTypes []string        `json:"violation_types"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Confidence = raw.Confidence
	r.ViolationTypes = raw.ViolationTypes
	r.Decision = DecisionUnknown

	var b bool
	if err := json.Unmarshal(raw.Decision, &b); err == nil {
		if b {
			r.Decision = DecisionCompliant
		} else {
			r.Decision = DecisionViolation
		}
	}
	return nil
}

// ModerationClient is the contract of the external text classifier. The
// engagement core only consumes it as a pre-check gate; implementations are
// injected at startup, never held as package globals.
type ModerationClient interface {
	Moderate(ctx context.Context, text, textType string) (*ModerationResult, error)
}

// HTTPModerationClient calls a remote moderation API over JSON/HTTP.
type HTTPModerationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPModerationClient creates a moderation client for the given endpoint.
func NewHTTPModerationClient(baseURL, apiKey string) *HTTPModerationClient {
	return &HTTPModerationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type moderationRequest struct {
	Text     string `json:"text"`
	TextType string `json:"text_type"`
}

// Moderate submits text for classification.
func (c *HTTPModerationClient) Moderate(ctx context.Context, text, textType string) (*ModerationResult, error) {
	payload, err := json.Marshal(moderationRequest{Text: text, TextType: textType})
	if err != nil {
		return nil, fmt.Errorf("marshal moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call moderation api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read moderation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[Moderation] API returned status %d: %s", resp.StatusCode, body)
		return nil, fmt.Errorf("moderation api status %d", resp.StatusCode)
	}

	var result ModerationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse moderation response: %w", err)
	}
	return &result, nil
}
