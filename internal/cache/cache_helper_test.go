package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

type cachedComplaint struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	client, _ := setupTestCache(t)
	helper := NewCacheHelper(client, "complaint:")
	ctx := context.Background()

	want := cachedComplaint{ID: 7, Title: "Broken projector in room 204"}
	if err := helper.Set(ctx, "id:7", want, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got cachedComplaint
	if err := helper.Get(ctx, "id:7", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	client, _ := setupTestCache(t)
	helper := NewCacheHelper(client, "complaint:")

	var got cachedComplaint
	err := helper.Get(context.Background(), "id:999", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "complaint:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedComplaint{ID: 1}, time.Minute); err != nil {
		t.Errorf("set on nil client should be a no-op, got %v", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("delete on nil client should be a no-op, got %v", err)
	}

	var got cachedComplaint
	if err := helper.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	client, _ := setupTestCache(t)
	helper := NewCacheHelper(client, "complaint:")
	ctx := context.Background()

	fetchCalls := 0
	fetch := func() (interface{}, error) {
		fetchCalls++
		return cachedComplaint{ID: 3, Title: "Wi-Fi keeps dropping"}, nil
	}

	var first cachedComplaint
	if err := helper.CacheOrExecute(ctx, "id:3", &first, time.Minute, fetch); err != nil {
		t.Fatalf("cache-or-execute failed: %v", err)
	}
	if fetchCalls != 1 {
		t.Fatalf("expected one fetch on miss, got %d", fetchCalls)
	}
	if first.Title != "Wi-Fi keeps dropping" {
		t.Errorf("unexpected result: %+v", first)
	}

	// The fill is asynchronous; wait for the key to land before the hit check.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if ok, _ := helper.Exists(ctx, "id:3"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache was never filled after miss")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second cachedComplaint
	if err := helper.CacheOrExecute(ctx, "id:3", &second, time.Minute, fetch); err != nil {
		t.Fatalf("cache-or-execute failed: %v", err)
	}
	if fetchCalls != 1 {
		t.Errorf("expected cache hit to skip fetch, fetch ran %d times", fetchCalls)
	}
	if second != first {
		t.Errorf("hit returned different value: %+v vs %+v", second, first)
	}
}

func TestCacheHelper_CacheOrExecuteFetchError(t *testing.T) {
	client, _ := setupTestCache(t)
	helper := NewCacheHelper(client, "complaint:")

	fetchErr := errors.New("database unavailable")
	var dest cachedComplaint
	err := helper.CacheOrExecute(context.Background(), "id:5", &dest, time.Minute, func() (interface{}, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	client, _ := setupTestCache(t)
	helper := NewCacheHelper(client, "complaint:")
	ctx := context.Background()

	for _, key := range []string{"owner:u1:page:1", "owner:u1:page:2", "owner:u2:page:1"} {
		if err := helper.Set(ctx, key, cachedComplaint{ID: 1}, time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "owner:u1:*"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	for _, key := range []string{"owner:u1:page:1", "owner:u1:page:2"} {
		if ok, _ := helper.Exists(ctx, key); ok {
			t.Errorf("key %q should have been invalidated", key)
		}
	}
	if ok, _ := helper.Exists(ctx, "owner:u2:page:1"); !ok {
		t.Error("unrelated owner key should survive invalidation")
	}
}

func TestInvalidateComplaintCache(t *testing.T) {
	client, _ := setupTestCache(t)
	cm := NewCacheManager(client)
	ctx := context.Background()

	seed := map[*CacheHelper][]string{
		cm.Complaint: {"id:9", "details:9", "owner:u1:page:1", "list:all", "id:10"},
		cm.Stats:     {"complaint:9:views", "complaint:10:views"},
	}
	for helper, keys := range seed {
		for _, key := range keys {
			if err := helper.Set(ctx, key, 1, time.Minute); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	}

	InvalidateComplaintCache(ctx, cm, 9, "u1")

	for _, key := range []string{"id:9", "details:9", "owner:u1:page:1", "list:all"} {
		if ok, _ := cm.Complaint.Exists(ctx, key); ok {
			t.Errorf("complaint key %q should have been invalidated", key)
		}
	}
	if ok, _ := cm.Complaint.Exists(ctx, "id:10"); !ok {
		t.Error("other complaint's key should survive")
	}
	if ok, _ := cm.Stats.Exists(ctx, "complaint:9:views"); ok {
		t.Error("stats for the complaint should have been invalidated")
	}
	if ok, _ := cm.Stats.Exists(ctx, "complaint:10:views"); !ok {
		t.Error("stats for other complaints should survive")
	}
}

func TestCacheManager_HealthCheck(t *testing.T) {
	client, mr := setupTestCache(t)
	cm := NewCacheManager(client)
	ctx := context.Background()

	if err := cm.HealthCheck(ctx); err != nil {
		t.Errorf("health check against live cache failed: %v", err)
	}

	mr.Close()
	if err := cm.HealthCheck(ctx); err == nil {
		t.Error("health check should fail once the cache is down")
	}

	degraded := NewCacheManager(nil)
	if err := degraded.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable for nil client, got %v", err)
	}
}
