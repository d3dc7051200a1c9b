package tutor

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Gemini is a Backend on the Gemini chat API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Send(ctx context.Context, question string, history []Message) (string, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
	}, toContents(history))
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: question})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

func toContents(history []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}
