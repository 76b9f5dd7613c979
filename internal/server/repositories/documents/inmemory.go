package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/server/models"
)

type memDoc struct {
	payload   []byte
	createdAt time.Time
	updatedAt time.Time
}

type memKey struct {
	owner string
	name  string
}

// InMemoryRepository is a map-backed Repository used in tests and by the
// in-memory repository manager. Payloads are copied on the way in and out so
// concurrent saves and loads never observe a partially written document.
type InMemoryRepository struct {
	mu   sync.RWMutex
	docs map[memKey]*memDoc
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{docs: make(map[memKey]*memDoc)}
}

func (r *InMemoryRepository) Save(ctx context.Context, owner, name string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := append([]byte(nil), payload...)
	key := memKey{owner: owner, name: name}

	now := time.Now()
	if existing, ok := r.docs[key]; ok {
		existing.payload = copied
		existing.updatedAt = now
		return nil
	}

	r.docs[key] = &memDoc{payload: copied, createdAt: now, updatedAt: now}
	return nil
}

func (r *InMemoryRepository) Load(ctx context.Context, owner, name string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[memKey{owner: owner, name: name}]
	if !ok {
		return nil, common.ErrNotFound
	}
	return append([]byte(nil), doc.payload...), nil
}

func (r *InMemoryRepository) List(ctx context.Context, owner string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type entry struct {
		name      string
		createdAt time.Time
	}
	var entries []entry
	for key, doc := range r.docs {
		if key.owner == owner {
			entries = append(entries, entry{name: key.name, createdAt: doc.createdAt})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].createdAt.After(entries[j].createdAt) })

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names, nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]models.DocumentInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var infos []models.DocumentInfo
	for key, doc := range r.docs {
		infos = append(infos, models.DocumentInfo{Owner: key.owner, Name: key.name, CreatedAt: doc.createdAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })

	return infos, nil
}
