package sessions

import (
	"context"
	"time"
)

type State string

const (
	StateMain             State = "main"
	StateSearchOptions    State = "search_options"
	StateWaitingForSearch State = "waiting_for_search"
	StateSearchResults    State = "search_results"
	StateFavorites        State = "favorites"
)

const DEFAULT_TTL = time.Hour

// Session is the conversation context for a single chat user. Handlers
// receive it explicitly and hand it back to the Store when they are done.
type Session struct {
	UserId    string    `json:"userId"`
	ChatId    int64     `json:"chatId"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSession(userId string, chatId int64) *Session {
	return &Session{
		UserId: userId,
		ChatId: chatId,
		State:  StateMain,
	}
}

func (s *Session) Transition(state State) {
	s.State = state
}

// Store loads and saves sessions. Get never fails for an unknown user; it
// returns a fresh session in the main state.
type Store interface {
	Get(ctx context.Context, userId string, chatId int64) (*Session, error)
	Save(ctx context.Context, session *Session) error
}
