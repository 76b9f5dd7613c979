package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mapsketch/mapsketch/internal/common"
)

func TestInMemory_SaveReplacesWholePayload(t *testing.T) {
	r := NewInMemoryRepository()
	ctx := context.Background()

	if err := r.Save(ctx, "alice", "map1", []byte("v1")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := r.Save(ctx, "alice", "map1", []byte("v2")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := r.Load(ctx, "alice", "map1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("payload = %q, want v2", got)
	}

	names, err := r.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("names = %v, want one entry", names)
	}
}

func TestInMemory_LoadMissingReturnsNotFoundWithoutMutation(t *testing.T) {
	r := NewInMemoryRepository()
	ctx := context.Background()

	_, err := r.Load(ctx, "alice", "absent")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	names, err := r.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("load must not create documents, got %v", names)
	}
}

func TestInMemory_ListNewestFirstPerOwner(t *testing.T) {
	r := NewInMemoryRepository()
	ctx := context.Background()

	if err := r.Save(ctx, "alice", "old", []byte("a")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if err := r.Save(ctx, "alice", "new", []byte("b")); err != nil {
		t.Fatal(err)
	}
	if err := r.Save(ctx, "bob", "other", []byte("c")); err != nil {
		t.Fatal(err)
	}

	names, err := r.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 2 || names[0] != "new" || names[1] != "old" {
		t.Fatalf("names = %v, want [new old]", names)
	}

	infos, err := r.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("infos = %v, want 3 entries", infos)
	}
}

// Concurrent saves and loads of the same name must always yield a complete
// payload from one of the writers, never a torn mix.
func TestInMemory_ConcurrentSaveLoad(t *testing.T) {
	r := NewInMemoryRepository()
	ctx := context.Background()

	if err := r.Save(ctx, "alice", "map1", mustPayload(t, 0)); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = r.Save(ctx, "alice", "map1", mustPayload(t, n))
		}(i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, err := r.Load(ctx, "alice", "map1")
			if err != nil {
				t.Errorf("Load error: %v", err)
				return
			}
			var doc map[string]int
			if err := json.Unmarshal(payload, &doc); err != nil {
				t.Errorf("torn payload %q: %v", payload, err)
			}
		}()
	}
	wg.Wait()
}

func mustPayload(t *testing.T, n int) []byte {
	t.Helper()
	return []byte(fmt.Sprintf(`{"version":%d}`, n))
}
