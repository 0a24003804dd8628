package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/globemate/globemate-backend/internal/domain"
)

// ----- Fake repo -----

type fakeChatRepo struct {
	createUserID string
	createTitle  string

	getChat *domain.Chat
	getErr  error

	updateID    string
	updateTitle string
	updateErr   error

	countTotal int64
	countErr   error

	pageOffset int
	pageLimit  int
	pageItems  []domain.Chat
	pageErr    error

	statsCount int64
	statsMax   *time.Time
	statsErr   error
}

func (r *fakeChatRepo) CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	r.createUserID, r.createTitle = userID, title
	return &domain.Chat{ID: "c1", UserID: userID, Title: title}, nil
}

func (r *fakeChatRepo) ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	return []domain.Chat{{ID: "c1", UserID: userID}}, nil
}

func (r *fakeChatRepo) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return r.getChat, r.getErr
}

func (r *fakeChatRepo) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	r.updateID, r.updateTitle = id, title
	return r.updateErr
}

func (r *fakeChatRepo) CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return r.countTotal, r.countErr
}

func (r *fakeChatRepo) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	r.pageOffset, r.pageLimit = offset, limit
	return r.pageItems, r.pageErr
}

func (r *fakeChatRepo) ChatsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return r.statsCount, r.statsMax, r.statsErr
}

// ----- Tests -----

func TestNewChatService_Defaults(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)

	if s.Repo != r {
		t.Fatalf("repo not set")
	}
	if s.TitleMaxLen != 60 {
		t.Fatalf("TitleMaxLen default = 60, got %d", s.TitleMaxLen)
	}
}

func TestChatCreate_TitleFallbackAndNormalization(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)
	ctx := context.Background()

	if _, err := s.Create(ctx, "u1", "   "); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.createTitle != "New chat" {
		t.Fatalf("blank title fallback = %q, want \"New chat\"", r.createTitle)
	}

	if _, err := s.Create(ctx, "u1", "  my \t study   plan "); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.createTitle != "my study plan" {
		t.Fatalf("whitespace not collapsed: %q", r.createTitle)
	}
}

func TestChatCreate_ClipsLongTitles(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)
	s.TitleMaxLen = 10

	long := strings.Repeat("ab", 20)
	if _, err := s.Create(context.Background(), "u1", long); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if utf8.RuneCountInString(r.createTitle) != 10 {
		t.Fatalf("title not clipped: %q (%d runes)", r.createTitle, utf8.RuneCountInString(r.createTitle))
	}
}

func TestListPage_DefaultsAndOffset(t *testing.T) {
	r := &fakeChatRepo{countTotal: 45, pageItems: []domain.Chat{{ID: "c1"}}}
	s := NewChatService(nil, r)

	items, total, err := s.ListPage(context.Background(), "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 45 || len(items) != 1 {
		t.Fatalf("unexpected result: total=%d items=%d", total, len(items))
	}
	if r.pageOffset != 0 || r.pageLimit != 20 {
		t.Fatalf("defaults not applied: offset=%d limit=%d", r.pageOffset, r.pageLimit)
	}

	if _, _, err := s.ListPage(context.Background(), "u1", 3, 10); err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if r.pageOffset != 20 || r.pageLimit != 10 {
		t.Fatalf("page math wrong: offset=%d limit=%d", r.pageOffset, r.pageLimit)
	}
}

func TestListPage_EmptyShortCircuit(t *testing.T) {
	r := &fakeChatRepo{countTotal: 0, pageErr: errors.New("should not be called")}
	s := NewChatService(nil, r)

	items, total, err := s.ListPage(context.Background(), "u1", 1, 20)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty page, got total=%d items=%d", total, len(items))
	}
}

func TestStats_PassesThroughRepo(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &fakeChatRepo{statsCount: 7, statsMax: &ts}
	s := NewChatService(nil, r)

	count, maxTS, err := s.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 7 {
		t.Fatalf("count = %d, want 7", count)
	}
	if maxTS == nil || !maxTS.Equal(ts) {
		t.Fatalf("maxTS = %v, want %v", maxTS, ts)
	}
}

func TestUpdateTitle_FallbackAndNotFound(t *testing.T) {
	r := &fakeChatRepo{getChat: &domain.Chat{ID: "c1", UserID: "u1"}}
	s := NewChatService(nil, r)
	ctx := context.Background()

	if err := s.UpdateTitle(ctx, "u1", "c1", "  "); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if r.updateTitle != "Untitled" {
		t.Fatalf("blank rename fallback = %q, want \"Untitled\"", r.updateTitle)
	}

	r.getChat, r.getErr = nil, gorm.ErrRecordNotFound
	if err := s.UpdateTitle(ctx, "u1", "c1", "new"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}
