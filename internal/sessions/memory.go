package sessions

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mutex    sync.RWMutex
	sessions map[string]Session
	TTL      time.Duration
	Now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	return &MemoryStore{
		sessions: make(map[string]Session),
		TTL:      ttl,
		Now:      time.Now,
	}
}

func (ms *MemoryStore) Get(ctx context.Context, userId string, chatId int64) (*Session, error) {
	ms.mutex.RLock()
	session, ok := ms.sessions[userId]
	ms.mutex.RUnlock()
	if !ok || ms.Now().Sub(session.UpdatedAt) > ms.TTL {
		return NewSession(userId, chatId), nil
	}
	session.ChatId = chatId
	return &session, nil
}

func (ms *MemoryStore) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = ms.Now()
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	ms.sessions[session.UserId] = *session
	return nil
}
