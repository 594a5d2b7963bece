package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schedsense/internal/observability"
	"github.com/hrygo/schedsense/internal/util"
	"github.com/hrygo/schedsense/store"
)

// ChatRequest is one user turn. ConversationUID is empty for a new
// conversation.
type ChatRequest struct {
	ConversationUID string `json:"conversation_uid,omitempty"`
	Message         string `json:"message"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	ConversationUID string `json:"conversation_uid"`
	Reply           string `json:"reply"`
	UsingMockData   bool   `json:"using_mock_data"`
}

// Chat runs one turn of the scheduling assistant.
// POST /api/v1/chat
func (s *APIV1Service) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	rc := observability.NewRequestContext(slog.Default())

	if s.Agent == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "AI assistant is not enabled"})
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	if err := s.scheduleSemaphore.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "server busy"})
	}
	defer s.scheduleSemaphore.Release(1)

	conversation, err := s.findOrCreateConversation(c, req)
	if err != nil {
		return err
	}
	if conversation == nil {
		// findOrCreateConversation already wrote the response.
		return nil
	}

	now := time.Now().Unix()
	if _, err := s.Store.CreateMessage(ctx, &store.Message{
		UID:            util.GenShortUID(),
		ConversationID: conversation.ID,
		Role:           store.MessageRoleUser,
		Content:        req.Message,
		Metadata:       "{}",
		CreatedTs:      now,
	}); err != nil {
		rc.Error("failed to persist user message", err,
			slog.String(observability.LogFieldConversation, conversation.UID))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist message"})
	}

	reply, err := s.Agent.Process(ctx, req.Message)
	if err != nil {
		rc.Error("agent run failed", err,
			slog.String(observability.LogFieldConversation, conversation.UID))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "assistant is unavailable, try again later"})
	}

	if _, err := s.Store.CreateMessage(ctx, &store.Message{
		UID:            util.GenShortUID(),
		ConversationID: conversation.ID,
		Role:           store.MessageRoleAssistant,
		Content:        reply,
		Metadata:       "{}",
		CreatedTs:      time.Now().Unix(),
	}); err != nil {
		rc.Error("failed to persist assistant message", err,
			slog.String(observability.LogFieldConversation, conversation.UID))
	}

	if _, err := s.Store.UpdateConversation(ctx, &store.UpdateConversation{ID: conversation.ID}); err != nil {
		rc.Warn("failed to bump conversation timestamp",
			slog.String(observability.LogFieldConversation, conversation.UID))
	}

	rc.Info("chat turn finished",
		slog.String(observability.LogFieldConversation, conversation.UID),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return c.JSON(http.StatusOK, ChatResponse{
		ConversationUID: conversation.UID,
		Reply:           reply,
		UsingMockData:   s.Profile.UseMockCalendar(),
	})
}

// findOrCreateConversation loads the referenced conversation or starts a
// new one. On a handled error it writes the response and returns nil, nil.
func (s *APIV1Service) findOrCreateConversation(c echo.Context, req ChatRequest) (*store.Conversation, error) {
	ctx := c.Request().Context()

	if req.ConversationUID != "" {
		conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &req.ConversationUID})
		if err != nil {
			return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load conversation"})
		}
		if conversation == nil {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
		}
		return conversation, nil
	}

	title := req.Message
	if len(title) > 60 {
		title = title[:60]
	}
	conversation, err := s.Store.CreateConversation(ctx, &store.Conversation{
		UID:      util.GenShortUID(),
		Title:    title,
		Timezone: s.Profile.Timezone,
	})
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create conversation"})
	}
	return conversation, nil
}

// ListConversations lists stored conversations, newest first.
// GET /api/v1/conversations
func (s *APIV1Service) ListConversations(c echo.Context) error {
	limit := 50
	list, err := s.Store.ListConversations(c.Request().Context(), &store.FindConversation{Limit: &limit})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list conversations"})
	}
	return c.JSON(http.StatusOK, list)
}

// ListMessages lists the messages of one conversation.
// GET /api/v1/conversations/:uid/messages
func (s *APIV1Service) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load conversation"})
	}
	if conversation == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: &conversation.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list messages"})
	}
	return c.JSON(http.StatusOK, messages)
}

// DeleteConversation removes a conversation and its messages.
// DELETE /api/v1/conversations/:uid
func (s *APIV1Service) DeleteConversation(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load conversation"})
	}
	if conversation == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}

	if err := s.Store.DeleteConversation(ctx, &store.DeleteConversation{ID: conversation.ID}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete conversation"})
	}
	return c.NoContent(http.StatusNoContent)
}
