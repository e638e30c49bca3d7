package domain

import "errors"

const (
	PersonaChef      = "chef"
	PersonaHousewife = "housewife"
	PersonaFriend    = "friend"

	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

var (
	MessageSuccessChat = "chat reply generated"
	MessageFailedChat  = "failed to generate chat reply"

	ErrInvalidPersona = errors.New("invalid chat persona")
)

type (
	ChatMessage struct {
		Role string `json:"role" validate:"required,oneof=user model"`
		Text string `json:"text" validate:"required"`
	}

	ChatRequest struct {
		Persona string        `json:"persona" validate:"required,oneof=chef housewife friend"`
		Message string        `json:"message" validate:"required,max=2000"`
		History []ChatMessage `json:"history" validate:"omitempty,max=50,dive"`
	}

	ChatResponse struct {
		Persona string        `json:"persona"`
		Reply   string        `json:"reply"`
		History []ChatMessage `json:"history"`
	}
)
