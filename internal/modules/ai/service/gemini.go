package service

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/eduelevate/internal/modules/ai/dto"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	roleUser  = "user"
	roleModel = "model"

	systemInstruction = `You are EduElevate's study assistant. Help students understand course material,
explain concepts step by step, suggest practice ideas and keep answers focused on learning.
Politely decline requests unrelated to studying.`
)

type Turn struct {
	Role string
	Text string
}

type ChatModel interface {
	Chat(ctx context.Context, history []Turn, message string) (*dto.ChatResponse, error)
}

type GeminiModel struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(800)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}

	return &GeminiModel{client: client, model: model}, nil
}

func (g *GeminiModel) Chat(ctx context.Context, history []Turn, message string) (*dto.ChatResponse, error) {
	session := g.model.StartChat()
	for _, turn := range history {
		session.History = append(session.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from model")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			reply.WriteString(string(txt))
		}
	}

	out := &dto.ChatResponse{Reply: strings.TrimSpace(reply.String())}
	if resp.UsageMetadata != nil {
		out.Usage = dto.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}
	return out, nil
}

func (g *GeminiModel) Close() error {
	return g.client.Close()
}
