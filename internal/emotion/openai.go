package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/NullMeDev/mediabias/internal/model"
)

const emotionPrompt = `You classify the emotions expressed in news text.
Respond with JSON only, in the form {"emotions":[{"label":"anger","score":0.42}]}.
Use labels from: anger, fear, sadness, disgust, joy, surprise, neutral.
Scores are between 0 and 1 and reflect how strongly each emotion is present.`

// OpenAI asks a chat model to label emotions
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the classifier; baseURL may be empty
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: openai.GPT3Dot5Turbo}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Classify(ctx context.Context, text string) ([]model.EmotionScore, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: emotionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result struct {
		Emotions []model.EmotionScore `json:"emotions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return result.Emotions, nil
}
