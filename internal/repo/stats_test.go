package repo

import (
	"context"
	"testing"
	"time"

	"github.com/globemate/globemate-backend/internal/domain"
)

func TestChatsStats_Empty(t *testing.T) {
	db := newTestDB(t, &domain.Chat{})

	count, maxTS, err := ChatsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("ChatsStats: %v", err)
	}
	if count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d maxTS=%v", count, maxTS)
	}
}

func TestChatsStats_CountsAndMaxUpdatedAt(t *testing.T) {
	db := newTestDB(t, &domain.Chat{})
	ctx := context.Background()

	t1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := []domain.Chat{
		{ID: "a", UserID: "u1", Title: "t", CreatedAt: t1, UpdatedAt: t1},
		{ID: "b", UserID: "u1", Title: "t", CreatedAt: t1, UpdatedAt: t1.Add(time.Hour)},
		{ID: "c", UserID: "u2", Title: "t", CreatedAt: t1, UpdatedAt: t1.Add(9 * time.Hour)},
	}
	for _, c := range seed {
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed %s: %v", c.ID, err)
		}
	}

	count, maxTS, err := ChatsStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ChatsStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if maxTS == nil || !maxTS.Equal(t1.Add(time.Hour)) {
		t.Fatalf("maxUpdatedAt = %v, want %v", maxTS, t1.Add(time.Hour))
	}
}
