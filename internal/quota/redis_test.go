package quota

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"quickai/internal/domain"
)

// fakeRedis mimics the string commands the store uses against a map.
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return ""
}

func TestRedisKey(t *testing.T) {
	if got := key("user_1"); got != "quickai:free_usage:user_1" {
		t.Fatalf("key = %q", got)
	}
}

func TestRedisStoreLoad(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client)

	count, found, err := store.Load(context.Background(), "user_1")
	if err != nil || found || count != 0 {
		t.Fatalf("Load missing = (%d, %v, %v), want (0, false, nil)", count, found, err)
	}

	client.values[key("user_1")] = "4"
	count, found, err = store.Load(context.Background(), "user_1")
	if err != nil || !found || count != 4 {
		t.Fatalf("Load = (%d, %v, %v), want (4, true, nil)", count, found, err)
	}
}

func TestRedisStoreInitializeDoesNotClobber(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client)

	count, err := store.InitializeIfAbsent(context.Background(), "user_1")
	if err != nil || count != 0 {
		t.Fatalf("InitializeIfAbsent = (%d, %v), want (0, nil)", count, err)
	}
	if got := client.values[key("user_1")]; got != "0" {
		t.Fatalf("stored %q, want 0", got)
	}

	client.values[key("user_1")] = "6"
	count, err = store.InitializeIfAbsent(context.Background(), "user_1")
	if err != nil || count != 6 {
		t.Fatalf("InitializeIfAbsent existing = (%d, %v), want (6, nil)", count, err)
	}
}

func TestRedisStoreIncrementAndReset(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client)

	for want := 1; want <= 2; want++ {
		count, err := store.Increment(context.Background(), "user_1")
		if err != nil || count != want {
			t.Fatalf("Increment = (%d, %v), want (%d, nil)", count, err, want)
		}
	}
	if err := store.Reset(context.Background(), "user_1"); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	if count, found, _ := store.Load(context.Background(), "user_1"); !found || count != 0 {
		t.Fatalf("after reset = (%d, %v), want (0, true)", count, found)
	}
}

func TestRedisStoreSurfacesErrors(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	store := NewRedisStore(client)

	if _, _, err := store.Load(context.Background(), "user_1"); err == nil {
		t.Fatalf("Load expected error")
	}
	if _, err := store.InitializeIfAbsent(context.Background(), "user_1"); err == nil {
		t.Fatalf("InitializeIfAbsent expected error")
	}
	if _, err := store.Increment(context.Background(), "user_1"); err == nil {
		t.Fatalf("Increment expected error")
	}
	if err := store.Reset(context.Background(), "user_1"); err == nil {
		t.Fatalf("Reset expected error")
	}
}

func TestRedisConcurrentInitializationIsIdempotent(t *testing.T) {
	client := newFakeRedis()
	ledger := NewLedger(NewRedisStore(client), discardLogger())
	p := domain.Principal{Identity: "user_race"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count, err := ledger.Load(context.Background(), p)
			if err != nil || count != 0 {
				t.Errorf("Load = (%d, %v), want (0, nil)", count, err)
			}
		}()
	}
	wg.Wait()

	if got := client.values[key("user_race")]; got != "0" {
		t.Fatalf("stored %q, want 0", got)
	}
}
