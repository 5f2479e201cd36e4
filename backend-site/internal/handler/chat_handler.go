package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// ChatHandler serves the chat widget
type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Welcome handles GET /api/v1/chat/welcome
func (h *ChatHandler) Welcome(c *gin.Context) {
	middleware.SkipAudit(c)

	reply, err := h.chatService.Welcome(c.Request.Context(), tenant.FromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(reply))
}

// Reply handles POST /api/v1/chat/messages. The answer arrives after the simulated typing delay.
func (h *ChatHandler) Reply(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.chat.reply")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	middleware.SkipAudit(c)

	var req dto.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.chatService.Reply(ctx, tenant.FromContext(c), req.Message)
	if err != nil {
		if ctx.Err() != nil {
			// client went away during the typing delay
			c.Status(499)
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(reply))
}
