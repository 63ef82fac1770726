package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"anoa.com/eduelevate/internal/modules/ai/dto"
	"anoa.com/eduelevate/pkg/apperror"
	"anoa.com/eduelevate/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxHistory      = 10
	rateLimitAction = "ai_chat"
)

type ChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, req dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	model       ChatModel
	redisClient *redis.Client
	window      time.Duration
	logger      *zap.Logger
}

func NewChatService(model ChatModel, redisClient *redis.Client, window time.Duration, logger *zap.Logger) ChatService {
	return &chatService{
		model:       model,
		redisClient: redisClient,
		window:      window,
		logger:      logger,
	}
}

func (s *chatService) Chat(ctx context.Context, userID uuid.UUID, req dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", apperror.ErrInvalidInput)
	}
	if s.model == nil {
		return nil, fmt.Errorf("assistant is not configured: %w", apperror.ErrExternalService)
	}

	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, userID, rateLimitAction, s.window)
	if err != nil {
		s.logger.Warn("ai rate limit check failed", zap.Error(err))
	} else if !allowed {
		ttl, _ := ratelimit.TTL(ctx, s.redisClient, userID, rateLimitAction)
		return nil, fmt.Errorf("please wait %.0f seconds before sending another message: %w", math.Ceil(ttl.Seconds()), apperror.ErrRateLimitExceeded)
	}

	reply, err := s.model.Chat(ctx, BuildHistory(req.History), message)
	if err != nil {
		s.logger.Error("assistant request failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("assistant is unavailable: %w", apperror.ErrExternalService)
	}
	return reply, nil
}

// BuildHistory keeps the most recent turns and maps assistant messages to the model role.
func BuildHistory(messages []dto.ChatMessage) []Turn {
	if len(messages) > maxHistory {
		messages = messages[len(messages)-maxHistory:]
	}

	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		role := roleUser
		if m.Role == "assistant" {
			role = roleModel
		}
		turns = append(turns, Turn{Role: role, Text: text})
	}
	return turns
}
