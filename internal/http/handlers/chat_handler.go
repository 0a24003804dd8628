// Chat and message HTTP handlers.
//
// Endpoints (all behind auth):
//   - POST /chats                 (create)
//   - GET  /chats                 (list, paginated, ETag support)
//   - PUT  /chats/{id}/title      (rename)
//   - GET  /chats/{id}/messages   (ordered history)
//   - POST /chats/{id}/messages   (append prompt, get assistant reply)
//   - GET  /messages              (flat history of the current user)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globemate/globemate-backend/internal/completion"
	"github.com/globemate/globemate-backend/internal/domain"
	"github.com/globemate/globemate-backend/internal/services"
	"github.com/globemate/globemate-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines chat lifecycle operations consumed by HTTP handlers.
type ChatService interface {
	// Create starts a new chat for userID with an optional title.
	Create(ctx context.Context, userID, title string) (*domain.Chat, error)
	// ListPage returns a page of chats for a user and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error)
	// UpdateTitle renames a chat that belongs to userID.
	UpdateTitle(ctx context.Context, userID, chatID, title string) error
	// Stats returns the chat count and latest activity time, used to derive
	// cache validators for list responses.
	Stats(ctx context.Context, userID string) (int64, *time.Time, error)
}

// MessageService defines conversation operations consumed by HTTP handlers.
type MessageService interface {
	// AnswerInChat appends a user prompt and an assistant reply to a chat
	// atomically, returning the assistant message.
	AnswerInChat(ctx context.Context, userID, chatID, prompt string) (*domain.Message, error)
	// ChatHistory returns a chat's messages in conversation order.
	ChatHistory(ctx context.Context, userID, chatID string) ([]domain.Message, error)
	// ListByUser returns the flat message history of a user, oldest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Message, error)
}

//
// Handler wiring
//

// Handlers groups the chat, message, and ask endpoints. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	chatSvc ChatService
	msgSvc  MessageService
	askSvc  AskService
}

// New constructs a Handlers instance bound to the given services.
func New(chatSvc ChatService, msgSvc MessageService, askSvc AskService) *Handlers {
	return &Handlers{chatSvc: chatSvc, msgSvc: msgSvc, askSvc: askSvc}
}

// userID extracts the authenticated user id from the Gin context (set by the
// auth middleware). Empty for anonymous requests.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

//
// DTOs
//

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	// Title optionally sets the chat title; a default is used when empty.
	Title string `json:"title" example:"Erasmus in Lisbon"`
}

// UpdateChatTitleRequest is the JSON payload for renaming a chat.
type UpdateChatTitleRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"Visa checklist for the Netherlands"`
}

// PostChatMessageRequest is the JSON payload for sending a prompt to a chat.
type PostChatMessageRequest struct {
	Content string `json:"content" binding:"required" example:"Which scholarships cover housing?"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListChatsResponse wraps a page of chats and pagination information.
type ListChatsResponse struct {
	Chats      []domain.Chat `json:"chats"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreateChat godoc
// @ID          createChat
// @Summary     Create a new chat
// @Description Creates a chat for the current user and returns the chat resource.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateChatRequest  true  "Create chat payload"
//
// @Success     201  {object}  domain.Chat
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ch, err := h.chatSvc.Create(c.Request.Context(), userID(c), strings.TrimSpace(req.Title))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, ch)
}

// ListChats godoc
// @ID          listChats
// @Summary     List chats (paginated)
// @Description Returns a page of the user's chats, most recently active first. Supports weak ETag via If-None-Match.
// @Tags        Chats
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListChatsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.chatSvc.Stats(ctx, uid); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"chats:%s:%d:%d"`, uid, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.chatSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListChatsResponse{
		Chats: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// UpdateChatTitle godoc
// @ID          updateChatTitle
// @Summary     Rename a chat
// @Description Updates the title of a chat owned by the current user.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Chat ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateChatTitleRequest  true  "New title"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats/{id}/title [put]
func (h *Handlers) UpdateChatTitle(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	var req UpdateChatTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}

	if err := h.chatSvc.UpdateTitle(c.Request.Context(), userID(c), chatID, req.Title); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		return
	}
	noContent(c)
}

// ListChatMessages godoc
// @ID          listChatMessages
// @Summary     Chat history
// @Description Returns a chat's messages in conversation order.
// @Tags        Messages
// @Produce     json
//
// @Param       id  path  string  true  "Chat ID (UUID)"  format(uuid)
//
// @Success     200  {array}  domain.Message
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListChatMessages(c *gin.Context) {
	msgs, err := h.msgSvc.ChatHistory(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to load messages")
		return
	}
	ok(c, http.StatusOK, msgs)
}

// PostChatMessage godoc
// @ID          postChatMessage
// @Summary     Send a prompt to a chat
// @Description Appends the prompt and the generated assistant reply to the chat, returning the assistant message.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Chat ID (UUID)"  format(uuid)
// @Param       body  body  handlers.PostChatMessageRequest  true  "Prompt payload"
//
// @Success     201  {object} domain.Message
// @Failure     400  {object} handlers.ErrorResponse "Empty or oversized prompt"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Generation failed"
// @Router      /chats/{id}/messages [post]
func (h *Handlers) PostChatMessage(c *gin.Context) {
	var req PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "content is required")
		return
	}

	msg, err := h.msgSvc.AnswerInChat(c.Request.Context(), userID(c), c.Param("id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "content is required")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "content is too long")
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		case errors.Is(err, completion.ErrGenerationFailed):
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, "Failed to generate response")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		}
		return
	}
	ok(c, http.StatusCreated, msg)
}

// ListMyMessages godoc
// @ID          listMyMessages
// @Summary     Flat message history
// @Description Returns every message of the current user, oldest first.
// @Tags        Messages
// @Produce     json
//
// @Success     200  {array}  domain.Message
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages [get]
func (h *Handlers) ListMyMessages(c *gin.Context) {
	msgs, err := h.msgSvc.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to load messages")
		return
	}
	ok(c, http.StatusOK, msgs)
}
