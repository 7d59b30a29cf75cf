package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/keylock"
)

type memoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Booking
	order []string // ids in insertion order

	locks       *keylock.Map
	lockTimeout time.Duration
}

// NewMemoryRepository returns a process-local store, used with STORAGE_DRIVER=memory and in tests.
// Admission tokens are per-site semaphores; the map itself is guarded by a separate mutex.
func NewMemoryRepository(lockTimeout time.Duration) Repository {
	return &memoryRepository{
		byID:        make(map[string]*Booking),
		locks:       keylock.New(),
		lockTimeout: lockTimeout,
	}
}

func (r *memoryRepository) WithSiteLock(ctx context.Context, siteID string, fn func(ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	unlock, err := r.locks.Lock(lockCtx, siteID)
	if err != nil {
		// Only our own deadline is a lock timeout; a cancelled caller gets its own error back.
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return err
	}
	defer unlock()

	return fn(ctx)
}

func (r *memoryRepository) HasOverlap(ctx context.Context, siteID string, start, end time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overlapsLocked(siteID, start, end, ""), nil
}

func (r *memoryRepository) overlapsLocked(siteID string, start, end time.Time, excludeID string) bool {
	for _, b := range r.byID {
		if b.ID == excludeID || b.SiteID != siteID || !b.IsConfirmed() {
			continue
		}
		if calendar.Overlaps(start, end, b.StartDate, b.EndDate) {
			return true
		}
	}
	return false
}

func (r *memoryRepository) OccupiedSiteIDs(ctx context.Context, start, end time.Time) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	occupied := make(map[string]struct{})
	for _, b := range r.byID {
		if b.IsConfirmed() && calendar.Overlaps(start, end, b.StartDate, b.EndDate) {
			occupied[b.SiteID] = struct{}{}
		}
	}
	return occupied, nil
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the exclusion constraint of the Postgres schema.
	if b.IsConfirmed() && r.overlapsLocked(b.SiteID, b.StartDate, b.EndDate, "") {
		return ErrOverlapConstraint
	}

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	stored := *b
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	r.mu.RLock()
	var matched []*Booking
	for _, id := range r.order {
		b := r.byID[id]
		if matches(b, filter) {
			out := *b
			matched = append(matched, &out)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartDate.Before(matched[j].StartDate)
	})

	page := filter.pagination()
	total := len(matched)
	offset := page.Offset()
	if offset >= total {
		return []*Booking{}, total, nil
	}
	end := min(offset+page.PageSize, total)
	return matched[offset:end], total, nil
}

func matches(b *Booking, f Filter) bool {
	switch {
	case f.CustomerName != "" && b.CustomerName != f.CustomerName:
		return false
	case f.PhoneNumber != "" && b.PhoneNumber != f.PhoneNumber:
		return false
	case f.SiteID != "" && b.SiteID != f.SiteID:
		return false
	case f.Status != "" && b.Status != f.Status:
		return false
	case f.From != nil && b.EndDate.Before(*f.From):
		return false
	case f.To != nil && b.StartDate.After(*f.To):
		return false
	}
	return true
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[b.ID]
	if !ok {
		return ErrNotFound
	}
	if b.Status == StatusConfirmed && !stored.IsConfirmed() &&
		r.overlapsLocked(stored.SiteID, stored.StartDate, stored.EndDate, stored.ID) {
		return ErrOverlapConstraint
	}

	stored.Status = b.Status
	stored.UpdatedAt = time.Now().UTC()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}
