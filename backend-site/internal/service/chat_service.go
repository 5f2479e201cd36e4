package service

import (
	"context"
	"errors"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/chatbot"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

var ErrChatbotDisabled = errors.New("chatbot disabled for tenant")

// ChatService answers the landing page chat widget
type ChatService interface {
	// Welcome returns the greeting for the tenant
	Welcome(ctx context.Context, tenant *domain.Tenant) (chatbot.Reply, error)
	// Reply answers one user message
	Reply(ctx context.Context, tenant *domain.Tenant, message string) (chatbot.Reply, error)
}

type chatService struct {
	responder *chatbot.Responder
}

func NewChatService(responder *chatbot.Responder) ChatService {
	return &chatService{responder: responder}
}

func (s *chatService) Welcome(ctx context.Context, tenant *domain.Tenant) (chatbot.Reply, error) {
	if !tenant.Settings.ChatbotEnabled {
		return chatbot.Reply{}, ErrChatbotDisabled
	}
	return chatbot.Welcome(tenant.Name), nil
}

func (s *chatService) Reply(ctx context.Context, tenant *domain.Tenant, message string) (chatbot.Reply, error) {
	if !tenant.Settings.ChatbotEnabled {
		return chatbot.Reply{}, ErrChatbotDisabled
	}
	return s.responder.Respond(ctx, message, tenant.Subdomain)
}
