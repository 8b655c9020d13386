package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/aiclient"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

const systemPrompt = `You are the VertiGuard AI safety assistant. You help users with fall prevention tips, emergency guidance, and questions about using VertiGuard. Be warm, concise and practical. If a user describes an active emergency, tell them to contact local emergency services immediately.`

// Service is the safety assistant: a stateless proxy that prepends the
// assistant persona and forwards the conversation to the gateway. The
// server keeps no chat history; the client sends the full transcript
// each turn.
type Service interface {
	Reply(ctx context.Context, messages []model.ChatMessage) (string, error)
}

type service struct {
	ai     aiclient.Client
	logger *zerolog.Logger
}

func NewService(ai aiclient.Client, logger *zerolog.Logger) Service {
	return &service{ai: ai, logger: logger}
}

func (s *service) Reply(ctx context.Context, messages []model.ChatMessage) (string, error) {
	conversation := make([]aiclient.Message, 0, len(messages)+1)
	conversation = append(conversation, aiclient.Message{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		conversation = append(conversation, aiclient.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.ai.Complete(ctx, conversation)
	if err != nil {
		return "", errors.ClassificationUnavailable(err)
	}
	return reply, nil
}
