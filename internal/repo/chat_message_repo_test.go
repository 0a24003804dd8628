package repo

import (
	"context"
	"testing"

	"github.com/globemate/globemate-backend/internal/domain"
)

func TestNextPosition_StartsAtZeroAndIncrements(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	chat, err := CreateChat(ctx, db, "u1", "t")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	pos, err := NextPosition(ctx, db, chat.ID)
	if err != nil || pos != 0 {
		t.Fatalf("empty chat: pos=%d err=%v, want 0", pos, err)
	}

	m, err := CreateMessage(ctx, db, "u1", "user", "hello")
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if _, err := AddMessageToChat(ctx, db, chat.ID, m.ID, pos); err != nil {
		t.Fatalf("AddMessageToChat: %v", err)
	}

	pos, err = NextPosition(ctx, db, chat.ID)
	if err != nil || pos != 1 {
		t.Fatalf("after one link: pos=%d err=%v, want 1", pos, err)
	}
}

func TestAddMessageToChat_DuplicatePositionRejected(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	chat, _ := CreateChat(ctx, db, "u1", "t")
	m1, _ := CreateMessage(ctx, db, "u1", "user", "a")
	m2, _ := CreateMessage(ctx, db, "u1", "user", "b")

	if _, err := AddMessageToChat(ctx, db, chat.ID, m1.ID, 0); err != nil {
		t.Fatalf("first link: %v", err)
	}
	if _, err := AddMessageToChat(ctx, db, chat.ID, m2.ID, 0); err == nil {
		t.Fatalf("expected unique (chat_id, position) violation")
	}
}

func TestListChatMessages_OrderedByPositionNotInsertTime(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	chat, _ := CreateChat(ctx, db, "u1", "t")
	first, _ := CreateMessage(ctx, db, "u1", "user", "first")
	second, _ := CreateMessage(ctx, db, "u1", "assistant", "second")

	// Insert links out of order; position must win over insertion order.
	if _, err := AddMessageToChat(ctx, db, chat.ID, second.ID, 1); err != nil {
		t.Fatalf("link second: %v", err)
	}
	if _, err := AddMessageToChat(ctx, db, chat.ID, first.ID, 0); err != nil {
		t.Fatalf("link first: %v", err)
	}

	msgs, err := ListChatMessages(ctx, db, chat.ID)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Fatalf("unexpected order: %+v", msgs)
	}
}

func TestListChatMessages_SkipsMissingMessages(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	chat, _ := CreateChat(ctx, db, "u1", "t")
	m, _ := CreateMessage(ctx, db, "u1", "user", "kept")

	if _, err := AddMessageToChat(ctx, db, chat.ID, m.ID, 0); err != nil {
		t.Fatalf("link kept: %v", err)
	}
	// Dangling link: references a message id that does not exist.
	if _, err := AddMessageToChat(ctx, db, chat.ID, "missing-id", 1); err != nil {
		t.Fatalf("link dangling: %v", err)
	}

	msgs, err := ListChatMessages(ctx, db, chat.ID)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "kept" {
		t.Fatalf("expected only the resolvable message, got %+v", msgs)
	}
}

func TestListChatMessages_EmptyChat(t *testing.T) {
	db := newTestDB(t, allModels()...)

	chat, _ := CreateChat(context.Background(), db, "u1", "t")
	msgs, err := ListChatMessages(context.Background(), db, chat.ID)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", msgs)
	}
}

func TestCountChatMessages(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	chat, _ := CreateChat(ctx, db, "u1", "t")
	for i := 0; i < 3; i++ {
		m, _ := CreateMessage(ctx, db, "u1", "user", "m")
		if _, err := AddMessageToChat(ctx, db, chat.ID, m.ID, i); err != nil {
			t.Fatalf("link %d: %v", i, err)
		}
	}

	n, err := CountChatMessages(ctx, db, chat.ID)
	if err != nil || n != 3 {
		t.Fatalf("CountChatMessages = %d, %v; want 3", n, err)
	}
}

func TestAddMessageToChat_TouchesChatRecency(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	older, _ := CreateChat(ctx, db, "u1", "older")
	newer, _ := CreateChat(ctx, db, "u1", "newer")

	// Backdate both so the touch moves one clearly forward.
	backdate := "2020-01-01 00:00:00"
	if err := db.Exec("UPDATE chats SET updated_at = ?", backdate).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	_ = newer

	m, _ := CreateMessage(ctx, db, "u1", "user", "hi")
	if _, err := AddMessageToChat(ctx, db, older.ID, m.ID, 0); err != nil {
		t.Fatalf("AddMessageToChat: %v", err)
	}

	chats, err := ListChats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) != 2 || chats[0].ID != older.ID {
		t.Fatalf("expected touched chat first, got %+v", chats)
	}

	var link domain.ChatMessage
	if err := db.First(&link, "chat_id = ?", older.ID).Error; err != nil {
		t.Fatalf("load link: %v", err)
	}
	if link.Position != 0 || link.MessageID != m.ID {
		t.Fatalf("unexpected link row: %+v", link)
	}
}
