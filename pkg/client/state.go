// Session and conversation state containers.
//
// SessionState models what the account widget needs: the signed-in user and
// which auth modal (login or signup) is open. The two modals are mutually
// exclusive; opening one closes the other.
//
// ChatState models a conversation panel: an append-only list of turns and a
// pending flag while a question is in flight. Submission appends the user's
// turn optimistically; if the ask fails the turn stays in place and a
// transient notice is set instead of rolling back.
package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrBusy is returned by Submit while a previous question is still pending.
var ErrBusy = errors.New("a question is already pending")

// ErrEmptyMessage is returned by Submit for blank input, before any request
// is made.
var ErrEmptyMessage = errors.New("message is empty")

// Modal identifies which auth dialog is open.
type Modal int

const (
	ModalNone Modal = iota
	ModalLogin
	ModalSignup
)

// SessionState tracks the signed-in user and auth modal visibility.
// Safe for concurrent use.
type SessionState struct {
	mu    sync.Mutex
	user  *User
	modal Modal
}

// OpenLogin shows the login modal, closing the signup modal if open.
func (s *SessionState) OpenLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ModalLogin
}

// OpenSignup shows the signup modal, closing the login modal if open.
func (s *SessionState) OpenSignup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ModalSignup
}

// CloseModals hides whichever auth modal is open.
func (s *SessionState) CloseModals() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ModalNone
}

// Modal reports which auth modal is currently open.
func (s *SessionState) Modal() Modal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// SetUser records a successful sign-in (or sign-out with nil) and closes any
// open modal.
func (s *SessionState) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.modal = ModalNone
}

// User returns the signed-in user, nil when anonymous.
func (s *SessionState) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Turn is one entry in the conversation panel.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Asker is the transport dependency of ChatState, satisfied by *Client.
type Asker interface {
	Ask(ctx context.Context, userID, message string) (string, error)
}

// ChatState holds the turns of a conversation panel and the in-flight flag.
// Safe for concurrent use.
type ChatState struct {
	asker  Asker
	userID string

	mu      sync.Mutex
	turns   []Turn
	pending bool
	notice  string
}

// NewChatState constructs a ChatState submitting through asker, attributing
// exchanges to userID when non-empty.
func NewChatState(asker Asker, userID string) *ChatState {
	return &ChatState{asker: asker, userID: userID}
}

// Submit sends message to the assistant. The user's turn is appended before
// the request so the panel updates immediately; on success the assistant's
// turn follows it. On failure the user's turn is kept and a notice is set.
// Only one submission may be in flight at a time.
func (cs *ChatState) Submit(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	cs.mu.Lock()
	if cs.pending {
		cs.mu.Unlock()
		return ErrBusy
	}
	cs.pending = true
	cs.notice = ""
	cs.turns = append(cs.turns, Turn{Role: "user", Content: message})
	cs.mu.Unlock()

	reply, err := cs.asker.Ask(ctx, cs.userID, message)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.pending = false
	if err != nil {
		cs.notice = "Sorry, something went wrong. Please try again."
		return err
	}
	cs.turns = append(cs.turns, Turn{Role: "assistant", Content: reply})
	return nil
}

// Pending reports whether a submission is in flight.
func (cs *ChatState) Pending() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.pending
}

// Turns returns a copy of the conversation so far.
func (cs *ChatState) Turns() []Turn {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]Turn, len(cs.turns))
	copy(out, cs.turns)
	return out
}

// Notice returns the transient failure notice, cleared on the next Submit.
func (cs *ChatState) Notice() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.notice
}
