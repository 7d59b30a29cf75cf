package site

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*Site
	byCode map[string]*Site
}

// NewMemoryRepository returns a process-local catalog, used with STORAGE_DRIVER=memory and in tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   make(map[string]*Site),
		byCode: make(map[string]*Site),
	}
}

func (r *memoryRepository) Create(ctx context.Context, s *Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[s.Code]; exists {
		return ErrDuplicateCode
	}

	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()

	stored := *s
	r.byID[stored.ID] = &stored
	r.byCode[stored.Code] = &stored
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *memoryRepository) GetByCode(ctx context.Context, code string) (*Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sites []*Site
	for _, s := range r.byID {
		if filter.CodePrefix != "" && !strings.HasPrefix(s.Code, filter.CodePrefix) {
			continue
		}
		out := *s
		sites = append(sites, &out)
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].Code < sites[j].Code })
	return sites, nil
}
