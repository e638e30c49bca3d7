package chat

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/pkg/gemini"
	"context"
	"strings"

	"go.uber.org/zap"
)

// maxHistory caps how many earlier turns are sent back to the model.
const maxHistory = 20

type (
	ChatService interface {
		Send(ctx context.Context, req domain.ChatRequest, userID string) (domain.ChatResponse, error)
	}

	chatService struct {
		analyzer gemini.Analyzer
		log      *zap.Logger
	}
)

func NewChatService(analyzer gemini.Analyzer, log *zap.Logger) ChatService {
	return &chatService{
		analyzer: analyzer,
		log:      log,
	}
}

func (s *chatService) Send(ctx context.Context, req domain.ChatRequest, userID string) (domain.ChatResponse, error) {
	if _, ok := gemini.PersonaInstruction(req.Persona); !ok {
		return domain.ChatResponse{}, domain.ErrInvalidPersona
	}

	message := strings.TrimSpace(req.Message)
	history := req.History
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	reply, err := s.analyzer.Chat(ctx, req.Persona, message, history)
	if err != nil {
		s.log.Error("chat failed", zap.String("user_id", userID), zap.String("persona", req.Persona), zap.Error(err))
		return domain.ChatResponse{}, err
	}

	out := make([]domain.ChatMessage, 0, len(history)+2)
	out = append(out, history...)
	out = append(out,
		domain.ChatMessage{Role: domain.ChatRoleUser, Text: message},
		domain.ChatMessage{Role: domain.ChatRoleModel, Text: reply},
	)

	return domain.ChatResponse{
		Persona: req.Persona,
		Reply:   reply,
		History: out,
	}, nil
}
