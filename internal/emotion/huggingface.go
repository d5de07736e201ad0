package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NullMeDev/mediabias/internal/model"
)

const (
	// DefaultHuggingFaceURL is the inference endpoint for the go_emotions model
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/SamLowe/roberta-base-go_emotions"
)

// HuggingFace calls the hosted text-classification model
type HuggingFace struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewHuggingFace creates the classifier; endpoint may be empty
func NewHuggingFace(apiKey, endpoint string, timeout time.Duration) *HuggingFace {
	if endpoint == "" {
		endpoint = DefaultHuggingFaceURL
	}
	return &HuggingFace{apiKey: apiKey, endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (h *HuggingFace) Name() string { return "huggingface" }

func (h *HuggingFace) Classify(ctx context.Context, text string) ([]model.EmotionScore, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errStatus("huggingface", resp.StatusCode, string(body))
	}
	return parseClassification(body)
}

// parseClassification accepts both the flat and the batched response shapes
func parseClassification(body []byte) ([]model.EmotionScore, error) {
	var nested [][]model.EmotionScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []model.EmotionScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("unexpected response format: %w", err)
	}
	return flat, nil
}
