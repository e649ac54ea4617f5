package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "acquiring:session:"

// SessionStore keeps per-chat cart state in Redis as JSON with a sliding TTL.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return client, nil
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, chatID)
}

func (s *SessionStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return &domain.Session{ChatID: chatID, Selection: domain.Selection{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %d: %w", chatID, err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %d: %w", chatID, err)
	}
	if session.Selection == nil {
		session.Selection = domain.Selection{}
	}
	session.ChatID = chatID
	return &session, nil
}

func (s *SessionStore) Set(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %d: %w", session.ChatID, err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ChatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session %d: %w", session.ChatID, err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session %d: %w", chatID, err)
	}
	return nil
}
