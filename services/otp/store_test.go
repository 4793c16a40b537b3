package otp

import (
	"context"
	"testing"
	"time"

	"vexstorm/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if ch, err := s.Get(ctx, "a@b.com"); err != nil || ch != nil {
		t.Fatalf("Expected empty store, got %v %v", ch, err)
	}

	expiry := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	if err := s.Set(ctx, "a@b.com", models.OTPChallenge{CodeHash: "h1", ExpiresAt: expiry}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "a@b.com", models.OTPChallenge{CodeHash: "h2", ExpiresAt: expiry}); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	ch, err := s.Get(ctx, "a@b.com")
	if err != nil || ch == nil {
		t.Fatalf("Get failed: %v %v", ch, err)
	}
	if ch.CodeHash != "h2" || !ch.ExpiresAt.Equal(expiry) {
		t.Errorf("Unexpected challenge %+v", ch)
	}

	deleted, err := s.Delete(ctx, "a@b.com")
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v", deleted, err)
	}
	deleted, _ = s.Delete(ctx, "a@b.com")
	if deleted {
		t.Error("Second delete should report nothing removed")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedisStore(client))
}

func TestRedisStore_KeepsExpiredEntriesForGrace(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStore(client)
	ctx := context.Background()

	s.Set(ctx, "a@b.com", models.OTPChallenge{CodeHash: "h", ExpiresAt: time.Now().Add(10 * time.Minute)})

	mr.FastForward(11 * time.Minute)
	if ch, _ := s.Get(ctx, "a@b.com"); ch == nil {
		t.Fatal("Entry should survive past expiry so it can be reported as expired")
	}

	mr.FastForward(2 * time.Hour)
	if ch, _ := s.Get(ctx, "a@b.com"); ch != nil {
		t.Error("Entry should be evicted after the grace period")
	}
}
