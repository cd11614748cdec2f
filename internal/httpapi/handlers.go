package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/debot/internal/conversation"
)

const maxConversationIDLen = 128

// Conversations is the part of the conversation controller the API drives.
type Conversations interface {
	HandleMessage(ctx context.Context, id, text string, progress conversation.ProgressFunc) (*conversation.Reply, error)
	Reset(ctx context.Context, id string) error
}

type ConversationHandler struct {
	conversations Conversations
}

func NewConversationHandler(c Conversations) *ConversationHandler {
	return &ConversationHandler{conversations: c}
}

type postMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type recommendationDTO struct {
	Module   string  `json:"module"`
	Lesson   string  `json:"lesson"`
	Duration string  `json:"duration"`
	Link     string  `json:"link"`
	Distance float64 `json:"distance"`
}

type postMessageResponse struct {
	Branch          conversation.Branch `json:"branch"`
	Progress        []string            `json:"progress,omitempty"`
	Replies         []string            `json:"replies"`
	Recommendations []recommendationDTO `json:"recommendations,omitempty"`
}

// PostMessage handles POST /api/conversations/:id/messages.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("text must not be blank"))
		return
	}

	var progress []string
	reply, err := h.conversations.HandleMessage(c.Request.Context(), id, req.Text, func(text string) {
		progress = append(progress, text)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			RespondError(c, http.StatusServiceUnavailable, "request_cancelled", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "conversation_store", err)
		return
	}

	resp := postMessageResponse{Branch: reply.Branch, Progress: progress, Replies: reply.Messages}
	for _, r := range reply.Recommendations {
		resp.Recommendations = append(resp.Recommendations, recommendationDTO{
			Module:   r.ModuleName,
			Lesson:   r.Lesson,
			Duration: r.Duration,
			Link:     r.Link,
			Distance: r.Distance,
		})
	}
	RespondOK(c, resp)
}

// DeleteConversation handles DELETE /api/conversations/:id.
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}
	if err := h.conversations.Reset(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, "conversation_store", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func conversationID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || len(id) > maxConversationIDLen {
		RespondError(c, http.StatusBadRequest, "invalid_conversation_id",
			fmt.Errorf("conversation id must be 1 to %d characters", maxConversationIDLen))
		return "", false
	}
	return id, true
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
