// Ask HTTP handler.
//
// POST /ask is the public advisory endpoint: anyone may ask, signed-in users
// additionally get both turns of the exchange persisted to their history.
// The caller identity comes from the verified session when present; the
// optional userId field in the body is honored only for unauthenticated
// requests, matching the original client behavior.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/globemate/globemate-backend/internal/completion"
	"github.com/globemate/globemate-backend/internal/services"
)

// AskRequest is the JSON payload for the ask endpoint.
type AskRequest struct {
	// Message is the user's question.
	Message string `json:"message" example:"What documents do I need for a UK student visa?"`
	// UserID optionally attributes the exchange for history persistence.
	UserID string `json:"userId,omitempty" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// AskResponse carries the generated reply.
type AskResponse struct {
	Reply string `json:"reply"`
}

// AskService defines the generation operation consumed by the ask endpoint.
type AskService interface {
	// Ask validates the message, generates a reply, and persists the
	// exchange when userID is non-empty.
	Ask(ctx context.Context, userID, message string) (string, error)
}

// Ask godoc
// @ID          ask
// @Summary     Ask the study-abroad assistant
// @Description Generates an advisory reply. When the caller is identified the exchange is saved to their history.
// @Tags        Ask
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.AskRequest  true  "Ask payload"
//
// @Success     200  {object}  handlers.AskResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or oversized message"
// @Failure     500  {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /ask [post]
func (h *Handlers) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "message is required")
		return
	}

	uid := userID(c)
	if uid == "" {
		uid = req.UserID
	}

	reply, err := h.askSvc.Ask(c.Request.Context(), uid, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "message is required")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "message is too long")
		case errors.Is(err, completion.ErrGenerationFailed):
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, "Failed to generate response")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		}
		return
	}

	ok(c, http.StatusOK, AskResponse{Reply: reply})
}
