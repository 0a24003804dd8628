// Package domain defines the persistence models for users, chats, messages,
// and the chat-message association. These types are mapped with GORM and form
// the core data layer of the advisory backend.
package domain

import "time"

// User represents a registered account. The password is stored only as a
// bcrypt hash and is never serialized to JSON.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: display handle chosen at registration.
//   - Email: login identifier; unique across all users.
//   - PasswordHash: bcrypt hash of the raw password.
//   - DisplayName: optional friendly name; defaults to the username.
//   - AvatarURL: optional profile image URL.
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username"     gorm:"type:varchar(64);not null"`
	Email        string    `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"            gorm:"type:varchar(128);not null"`
	DisplayName  string    `json:"displayName"  gorm:"type:varchar(128)"`
	AvatarURL    *string   `json:"avatarUrl,omitempty" gorm:"type:varchar(512)"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Message represents a single conversation turn owned by a user. Messages are
// written once by the ask pipeline and never mutated afterwards.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: identifier of the owning user; indexed for history reads.
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Content: full text content of the turn.
//   - CreatedAt: store-assigned timestamp; drives per-user ordering.
type Message struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId"    gorm:"type:char(36);not null;index:idx_user_msgs,priority:1"`
	Role      string    `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string    `json:"content"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"timestamp" gorm:"index:idx_user_msgs,priority:2"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Chat represents a conversation owned by a user. Its UpdatedAt advances
// every time a message is linked into it, which drives the recency ordering
// of chat listings.
type Chat struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId"    gorm:"type:char(36);not null;index:idx_user_chats"`
	Title     string    `json:"title"     gorm:"type:varchar(255);not null;default:'New chat'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// ChatMessage links a Message into a Chat at an explicit position. Positions
// are unique within a chat and define the total retrieval order; gaps are
// allowed, only strict ordering matters.
//
// The column is named "position" because ORDER is a reserved word in SQL; the
// JSON field keeps the wire name "order".
type ChatMessage struct {
	ID        string `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID    string `json:"chatId"    gorm:"type:char(36);not null;uniqueIndex:ux_chat_position,priority:1"`
	MessageID string `json:"messageId" gorm:"type:char(36);not null;index"`
	Position  int    `json:"order"     gorm:"column:position;not null;uniqueIndex:ux_chat_position,priority:2"`

	// Chat is the parent conversation. Associations are cascade-deleted
	// if their chat is removed.
	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }
