// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the ask pipeline and chat-scoped conversations. It validates inputs,
// invokes the completion gateway, and persists the user/assistant turn pair.
//
// Two persistence modes exist, mirroring the two entry points:
//
//   - Ask: the public ask endpoint. Messages are stored flat against the
//     user (when one is identified) and are NOT linked into a chat. The
//     writes are best-effort: a store failure after a successful generation
//     is logged and the reply is still returned.
//
//   - AnswerInChat: the authenticated chat endpoint. Both turns are written
//     and linked into the chat at the next positions inside one transaction,
//     the chat's UpdatedAt is touched, and the chat may be auto-titled from
//     the first prompt.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// user/chat identifiers.
package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/globemate/globemate-backend/internal/completion"
	"github.com/globemate/globemate-backend/internal/domain"
	"github.com/globemate/globemate-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// default titles considered placeholders, eligible for auto-generation
	defaultTitleNew      = "New chat"
	defaultTitleUntitled = "Untitled"
)

// MessageService coordinates message validation, generation, and persistence.
type MessageService struct {
	DB        *gorm.DB
	Completer completion.Completer

	// MaxPromptRunes caps incoming prompts; 0 disables the check.
	MaxPromptRunes int

	// Title generation config
	TitleLocale language.Tag
	TitleMaxLen int
}

// Ask validates the message, obtains a reply from the completion gateway,
// and, when the caller is identified, persists both turns against the
// user. Persistence is deliberately best-effort: once a reply has been paid
// for, a failed write is logged at warn level and the reply is returned
// anyway.
func (s *MessageService) Ask(ctx context.Context, userID, message string) (string, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Ask",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(message) > s.MaxPromptRunes {
		return "", ErrTooLong
	}

	reply, err := s.Completer.Complete(ctx, message)
	if err != nil {
		return "", err
	}

	if userID != "" {
		if _, err := repo.CreateMessage(ctx, s.DB, userID, roleUser, message); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("persisting user turn failed; reply still returned")
		} else if _, err := repo.CreateMessage(ctx, s.DB, userID, roleAssistant, reply); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("persisting assistant turn failed; reply still returned")
		}
	}

	return reply, nil
}

// ListByUser returns all messages owned by userID, oldest first.
func (s *MessageService) ListByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListByUser",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListMessagesByUser(ctx, s.DB, userID)
}

// AnswerInChat validates the prompt, verifies chat ownership, obtains a
// reply, and persists both turns linked into the chat atomically. The chat's
// UpdatedAt is touched and a placeholder title is replaced by one generated
// from the prompt.
func (s *MessageService) AnswerInChat(ctx context.Context, userID, chatID, prompt string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "AnswerInChat",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	// Ensure the chat exists and belongs to the user
	chat, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		return nil, ErrChatNotFound
	}

	reply, err := s.Completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Persist user + assistant, link both, and maybe update the title in
	// one transaction.
	var assistantMsg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := repo.NextPosition(ctx, tx, chatID)
		if err != nil {
			return err
		}

		userMsg, err := repo.CreateMessage(ctx, tx, userID, roleUser, prompt)
		if err != nil {
			return err
		}
		if _, err := repo.AddMessageToChat(ctx, tx, chatID, userMsg.ID, pos); err != nil {
			return err
		}

		m, err := repo.CreateMessage(ctx, tx, userID, roleAssistant, reply)
		if err != nil {
			return err
		}
		if _, err := repo.AddMessageToChat(ctx, tx, chatID, m.ID, pos+1); err != nil {
			return err
		}
		assistantMsg = m

		// Auto-title if placeholder
		if s.shouldAutoTitle(chat.Title) {
			if gen := s.generateTitleFromPrompt(prompt); gen != "" {
				gen = s.clipTitle(gen)
				if uerr := tx.Model(&domain.Chat{}).Where("id = ?", chatID).Update("title", gen).Error; uerr == nil {
					chat.Title = gen
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return assistantMsg, nil
}

// ChatHistory returns the messages of a chat ordered by their association
// positions, after verifying the chat belongs to userID.
func (s *MessageService) ChatHistory(ctx context.Context, userID, chatID string) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ChatHistory",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if _, err := repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		return nil, ErrChatNotFound
	}
	return repo.ListChatMessages(ctx, s.DB, chatID)
}

// shouldAutoTitle reports whether the current title is a placeholder.
func (s *MessageService) shouldAutoTitle(current string) bool {
	t := strings.TrimSpace(strings.ToLower(current))
	return t == "" || t == strings.ToLower(defaultTitleNew) || t == strings.ToLower(defaultTitleUntitled)
}

// generateTitleFromPrompt derives a concise title from the prompt.
func (s *MessageService) generateTitleFromPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ""
	}
	toks := titleWordRE.FindAllString(strings.ToLower(prompt), -1)
	if len(toks) == 0 {
		return ""
	}

	titleCaser := cases.Title(s.titleLocaleOrDefault())
	out := make([]string, 0, 8)

	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, titleCaser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, " ")
}

// clipTitle truncates a generated title to the configured maximum rune length.
func (s *MessageService) clipTitle(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		return string([]rune(title)[:max])
	}
	return title
}

// titleLocaleOrDefault returns the configured locale for casing or English if unset.
func (s *MessageService) titleLocaleOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// --- Title generation helpers ---

// Extract Unicode letters with optional trailing numbers.
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// Minimal English stop-words set for compact titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
}
