package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/forkful/forkful/chat"
	"github.com/forkful/forkful/store"
)

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	ConversationID string        `json:"conversation_id"`
	Title          string        `json:"title"`
	UserMessage    store.Message `json:"user_message"`
	Assistant      store.Message `json:"assistant_message"`
}

type conversationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedTs int64  `json:"updated_ts"`
}

func (s *APIV1Service) registerChatRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/chat", s.handleChat)
	g.POST("/chat/reset", s.resetChat)
	g.GET("/conversations", s.listConversations)
	g.GET("/conversations/:id", s.getConversation)
	g.DELETE("/conversations/:id", s.deleteConversation)
}

// handleChat runs one full turn and replies with both new messages. Turn
// errors map to status codes here; tool failures never surface as errors,
// they are already part of the assistant message.
func (s *APIV1Service) handleChat(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.Engine.ProcessTurn(c.Request().Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, chat.ErrTurnInFlight):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, chat.ErrModelNotConfigured), errors.Is(err, chat.ErrModelAuth):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, chat.ErrModelUnavailable):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, chatResponse{
		ConversationID: result.ConversationID,
		Title:          result.Title,
		UserMessage:    result.UserMessage,
		Assistant:      result.Assistant,
	})
}

// resetChat starts a new chat: the in-memory and locally cached conversation
// reference is dropped, persisted history stays.
func (s *APIV1Service) resetChat(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	s.Engine.Conversations().Clear(userID)
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) listConversations(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	conversations, err := s.Store.ListConversations(c.Request().Context(), &store.FindConversation{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]conversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		resp = append(resp, conversationResponse{
			ID:        conv.ID,
			Title:     conv.Title,
			UpdatedTs: conv.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// getConversation loads one conversation with its full message list and makes
// it the active one for subsequent turns.
func (s *APIV1Service) getConversation(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation id required")
	}
	conv, err := s.Store.GetConversation(c.Request().Context(), &store.FindConversation{ID: &id, UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if conv == nil {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	s.Engine.Conversations().Activate(userID, conv)
	return c.JSON(http.StatusOK, conv)
}

func (s *APIV1Service) deleteConversation(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	conv, err := s.Store.GetConversation(c.Request().Context(), &store.FindConversation{ID: &id, UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if conv == nil {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	if err := s.Store.DeleteConversation(c.Request().Context(), id, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if active := s.Engine.Conversations().Active(userID); active != nil && active.ID == id {
		s.Engine.Conversations().Clear(userID)
	}
	return c.NoContent(http.StatusNoContent)
}
