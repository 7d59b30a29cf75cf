package booking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/events"
	"github.com/nekogravitycat/campsite-booking-backend/internal/logger"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pricing"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

type fixture struct {
	svc      Service
	repo     Repository
	recorder *events.Recorder
	a1, b1   *site.Site
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRepo(t, NewMemoryRepository(time.Second))
}

func newFixtureWithRepo(t *testing.T, repo Repository) *fixture {
	t.Helper()
	a1 := &site.Site{ID: "site-a1", Code: "A-1", Capacity: 6}
	b1 := &site.Site{ID: "site-b1", Code: "B-1", Capacity: 4}
	rec := &events.Recorder{}
	prices := pricing.NewPriceCalculator()

	svc := NewService(repo, catalog(a1, b1), prices, pricing.NewPointCalculator(prices),
		rec, clock.Fixed(testNow), logger.Discard())
	return &fixture{svc: svc, repo: repo, recorder: rec, a1: a1, b1: b1}
}

func bookingRequest(code string, start, end int) CreateRequest {
	return CreateRequest{
		SiteCode:     code,
		CustomerName: "Park",
		PhoneNumber:  "010-1111-2222",
		StartDate:    day(start),
		EndDate:      day(end),
	}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2026-03-07 (Sat) to 2026-03-09 (Mon).
	b, err := f.svc.Create(ctx, bookingRequest("A-1", 5, 7))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Len(t, b.ConfirmationCode, CodeLength)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "A-1", b.SiteCode)
	assert.Equal(t, 288000, b.TotalPrice)
	assert.Equal(t, 28800, b.Points)

	got, err := f.svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.SiteID, got.SiteID)
	assert.Equal(t, b.CustomerName, got.CustomerName)
	assert.Equal(t, b.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, b.StartDate, got.StartDate)
	assert.Equal(t, b.EndDate, got.EndDate)
	assert.Equal(t, b.ConfirmationCode, got.ConfirmationCode)
	assert.Equal(t, b.TotalPrice, got.TotalPrice)
	assert.Equal(t, b.Points, got.Points)

	_, err = f.svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	published := f.recorder.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.ReservationConfirmed, published[0].Type)
	assert.Equal(t, b.ID, published[0].ReservationID)
	assert.Equal(t, "2026-03-07", published[0].StartDate)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, bookingRequest("A-1", 10, 12))
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end int
		wantErr    error
	}{
		{name: "identical", start: 10, end: 12, wantErr: ErrOverlapExists},
		{name: "touching start", start: 8, end: 10, wantErr: ErrOverlapExists},
		{name: "touching end", start: 12, end: 14, wantErr: ErrOverlapExists},
		{name: "inside", start: 11, end: 11, wantErr: ErrOverlapExists},
		{name: "covering", start: 9, end: 13, wantErr: ErrOverlapExists},
		{name: "day before", start: 8, end: 9},
		{name: "day after", start: 13, end: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := f.svc.Create(ctx, bookingRequest("A-1", tt.start, tt.end))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			// Free the range again so the cases stay independent.
			_, err = f.svc.Cancel(ctx, b.ID, b.ConfirmationCode)
			require.NoError(t, err)
		})
	}

	// Another site is unaffected.
	_, err = f.svc.Create(ctx, bookingRequest("B-1", 10, 12))
	assert.NoError(t, err)
}

func TestCreateValidationBeforeStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), bookingRequest("Z-1", 1, 2))
	assert.ErrorIs(t, err, ErrSiteNotFound)
	assert.Empty(t, f.recorder.Events())
}

func TestConcurrentOverlappingRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 20
	var succeeded, overlapped atomic.Int32

	var g errgroup.Group
	for range attempts {
		g.Go(func() error {
			_, err := f.svc.Create(ctx, bookingRequest("A-1", 3, 5))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrOverlapExists):
				overlapped.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, succeeded.Load())
	assert.EqualValues(t, attempts-1, overlapped.Load())

	list, total, err := f.repo.List(ctx, Filter{SiteID: f.a1.ID, Status: StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

func TestConcurrentDisjointRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var g errgroup.Group
	for i := range 10 {
		g.Go(func() error {
			_, err := f.svc.Create(ctx, bookingRequest("A-1", i*2+1, i*2+2))
			return err
		})
		g.Go(func() error {
			_, err := f.svc.Create(ctx, bookingRequest("B-1", 1, 30))
			if errors.Is(err, ErrOverlapExists) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	_, total, err := f.repo.List(ctx, Filter{SiteID: f.a1.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	_, total, err = f.repo.List(ctx, Filter{SiteID: f.b1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("frees the range", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.svc.Create(ctx, bookingRequest("A-1", 4, 6))
		require.NoError(t, err)

		cancelled, err := f.svc.Cancel(ctx, b.ID, b.ConfirmationCode)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)

		again, err := f.svc.Create(ctx, bookingRequest("A-1", 4, 6))
		require.NoError(t, err)
		assert.NotEqual(t, b.ID, again.ID)

		published := f.recorder.Events()
		require.Len(t, published, 3)
		assert.Equal(t, events.ReservationCancelled, published[1].Type)
		assert.Equal(t, string(StatusCancelled), published[1].Status)
	})

	t.Run("same day", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.svc.Create(ctx, bookingRequest("A-1", 0, 1))
		require.NoError(t, err)

		cancelled, err := f.svc.Cancel(ctx, b.ID, b.ConfirmationCode)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelledSameDay, cancelled.Status)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.svc.Create(ctx, bookingRequest("A-1", 2, 2))
		require.NoError(t, err)

		first, err := f.svc.Cancel(ctx, b.ID, b.ConfirmationCode)
		require.NoError(t, err)
		second, err := f.svc.Cancel(ctx, b.ID, b.ConfirmationCode)
		require.NoError(t, err)
		assert.Equal(t, first.Status, second.Status)

		stored, err := f.svc.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, stored.Status)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.svc.Create(ctx, bookingRequest("A-1", 2, 2))
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, b.ID, "WRONG1")
		assert.ErrorIs(t, err, ErrTokenMismatch)
		_, err = f.svc.Cancel(ctx, b.ID, "")
		assert.ErrorIs(t, err, ErrTokenMismatch)

		stored, err := f.svc.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, stored.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Cancel(ctx, "nope", "ABCDEF")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, r := range []CreateRequest{
		bookingRequest("A-1", 5, 6),
		bookingRequest("B-1", 1, 2),
		{SiteCode: "A-1", CustomerName: "Choi", StartDate: day(10), EndDate: day(11)},
	} {
		_, err := f.svc.Create(ctx, r)
		require.NoError(t, err)
	}

	_, _, err := f.svc.List(ctx, Filter{})
	assert.ErrorIs(t, err, ErrMissingCustomer)
	assert.NotErrorIs(t, err, ErrMissingCustomerName)

	list, total, err := f.svc.List(ctx, Filter{CustomerName: "Park"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "B-1", list[0].SiteCode, "ordered by start date")
	assert.Positive(t, list[0].TotalPrice)

	list, _, err = f.svc.List(ctx, Filter{CustomerName: "Park", PhoneNumber: "010-0000-0000"})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, total, err = f.svc.List(ctx, Filter{CustomerName: "Park", Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "A-1", list[0].SiteCode)

	list, total, err = f.svc.ListForSite(ctx, "A-1", Filter{From: day(8), To: day(20)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Choi", list[0].CustomerName)

	_, _, err = f.svc.ListForSite(ctx, "A-1", Filter{From: day(8), To: day(2)})
	assert.ErrorIs(t, err, ErrInvalidFilterRange)
	assert.NotErrorIs(t, err, ErrEndBeforeStart)
	assert.NotErrorIs(t, err, site.ErrEndBeforeStart)

	_, _, err = f.svc.ListForSite(ctx, "Q-1", Filter{})
	assert.ErrorIs(t, err, site.ErrNotFound)
}

// failingRepo fails every insert.
type failingRepo struct {
	Repository
	createErr error
}

func (r *failingRepo) Create(ctx context.Context, b *Booking) error {
	return r.createErr
}

func TestCreateSurfacesStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	f := newFixtureWithRepo(t, &failingRepo{Repository: NewMemoryRepository(time.Second), createErr: boom})

	_, err := f.svc.Create(context.Background(), bookingRequest("A-1", 1, 1))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.recorder.Events())

	_, total, err := f.repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateLockTimeout(t *testing.T) {
	repo := NewMemoryRepository(20 * time.Millisecond)
	f := newFixtureWithRepo(t, repo)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- repo.WithSiteLock(ctx, f.a1.ID, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	_, err := f.svc.Create(ctx, bookingRequest("A-1", 1, 1))
	assert.ErrorIs(t, err, ErrLockTimeout)

	// The other site is not blocked.
	_, err = f.svc.Create(ctx, bookingRequest("B-1", 1, 1))
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	_, err = f.svc.Create(ctx, bookingRequest("A-1", 1, 1))
	assert.NoError(t, err)
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.recorder.Err = errors.New("broker down")

	b, err := f.svc.Create(context.Background(), bookingRequest("A-1", 1, 1))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
}
