// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatMessage
// association, which links messages into chats at explicit positions.
package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/globemate/globemate-backend/internal/domain"
)

// AddMessageToChat links messageID into chatID at the given position and
// touches the parent chat's UpdatedAt. Both writes run against the supplied
// handle, so callers can wrap them in a transaction.
func AddMessageToChat(ctx context.Context, db *gorm.DB, chatID, messageID string, position int) (*domain.ChatMessage, error) {
	cm := &domain.ChatMessage{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		MessageID: messageID,
		Position:  position,
	}
	if err := db.WithContext(ctx).Create(cm).Error; err != nil {
		return nil, err
	}
	if err := TouchChat(ctx, db, chatID); err != nil {
		return nil, err
	}
	return cm, nil
}

// NextPosition returns the next free position in chatID (max+1, starting at 0).
// Under concurrent appenders the unique (chat_id, position) index rejects the
// loser, which surfaces as a DB error for the caller to retry or report.
func NextPosition(ctx context.Context, db *gorm.DB, chatID string) (int, error) {
	var row struct {
		Max *int
	}
	err := db.WithContext(ctx).
		Raw("SELECT MAX(position) AS max FROM chat_messages WHERE chat_id = ?", chatID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Max == nil {
		return 0, nil
	}
	return *row.Max + 1, nil
}

// ListChatMessages resolves the messages of chatID through the association
// table, ordered ascending by position. A link whose message row is missing
// is skipped with a warning rather than failing the whole read; messages are
// never deleted in this system, so a stale link indicates an interrupted
// write, not corruption.
func ListChatMessages(ctx context.Context, db *gorm.DB, chatID string) ([]domain.Message, error) {
	var links []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("position ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []domain.Message{}, nil
	}

	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.MessageID)
	}

	var rows []domain.Message
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Message, len(rows))
	for _, m := range rows {
		byID[m.ID] = m
	}

	out := make([]domain.Message, 0, len(links))
	for _, l := range links {
		m, ok := byID[l.MessageID]
		if !ok {
			log.Warn().
				Str("chat_id", chatID).
				Str("message_id", l.MessageID).
				Msg("chat link references missing message; skipping")
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// CountChatMessages returns the number of links in chatID.
func CountChatMessages(ctx context.Context, db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("chat_id = ?", chatID).
		Count(&total).Error
	return total, err
}
