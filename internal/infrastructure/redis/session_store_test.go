package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestSessionKey(t *testing.T) {
	if got := sessionKey(777); got != "acquiring:session:777" {
		t.Errorf("unexpected key %s", got)
	}
}

func TestSessionStore_Unreachable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewSessionStore(client, time.Minute)

	t.Run("Given unreachable redis When reading Then error is returned", func(t *testing.T) {
		if _, err := store.Get(context.Background(), 1); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Given unreachable redis When connecting Then error is returned", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if _, err := Connect(ctx, "127.0.0.1:1", "", 0); err == nil {
			t.Error("expected error")
		}
	})
}
