package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/events"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pricing"
)

type CreateRequest struct {
	SiteCode     string
	CustomerName string
	PhoneNumber  string
	StartDate    *time.Time
	EndDate      *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Cancel(ctx context.Context, id, confirmationCode string) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// List returns one page of a customer's bookings. CustomerName is required.
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// ListForSite returns one page of the bookings of the site with the given code.
	ListForSite(ctx context.Context, siteCode string, filter Filter) ([]*Booking, int, error)
}

type service struct {
	repo      Repository
	sites     SiteLookup
	validator *Validator
	prices    *pricing.PriceCalculator
	points    *pricing.PointCalculator
	publisher events.Publisher
	clock     clock.Clock
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewService(
	repo Repository,
	sites SiteLookup,
	prices *pricing.PriceCalculator,
	points *pricing.PointCalculator,
	publisher events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) Service {
	return &service{
		repo:      repo,
		sites:     sites,
		validator: NewValidator(sites, clk),
		prices:    prices,
		points:    points,
		publisher: publisher,
		clock:     clk,
		logger:    logger.With("component", "booking"),
		tracer:    otel.Tracer("github.com/nekogravitycat/campsite-booking-backend/internal/booking"),
	}
}

// Create admits a booking if no CONFIRMED booking on the same site shares a day with it.
// The overlap check and the insert run under the site's admission token.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Create")
	defer span.End()

	// 1. Validate
	v, err := s.validator.Validate(ctx, req)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("site.code", v.Site.Code),
		attribute.String("booking.start_date", calendar.Format(v.StartDate)),
		attribute.String("booking.end_date", calendar.Format(v.EndDate)),
	)

	code, err := NewConfirmationCode()
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	b := &Booking{
		SiteID:           v.Site.ID,
		SiteCode:         v.Site.Code,
		CustomerName:     v.CustomerName,
		PhoneNumber:      v.PhoneNumber,
		StartDate:        v.StartDate,
		EndDate:          v.EndDate,
		Status:           StatusConfirmed,
		ConfirmationCode: code,
	}

	// 2. Check and insert under the site token
	err = s.repo.WithSiteLock(ctx, v.Site.ID, func(ctx context.Context) error {
		overlap, err := s.repo.HasOverlap(ctx, b.SiteID, b.StartDate, b.EndDate)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlapExists
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		if errors.Is(err, ErrOverlapConstraint) {
			s.logger.ErrorContext(ctx, "store rejected overlapping confirmed reservation admitted under lock",
				"site_code", b.SiteCode,
				"start_date", calendar.Format(b.StartDate),
				"end_date", calendar.Format(b.EndDate),
				"error", err)
		}
		recordError(span, err)
		return nil, err
	}

	// 3. Project price and points
	s.project(b)
	span.SetAttributes(attribute.String("booking.id", b.ID))

	s.logger.InfoContext(ctx, "reservation confirmed",
		"id", b.ID,
		"site_code", b.SiteCode,
		"start_date", calendar.Format(b.StartDate),
		"end_date", calendar.Format(b.EndDate),
		"total_price", b.TotalPrice)
	s.publish(ctx, events.ReservationConfirmed, b)

	return b, nil
}

// Cancel marks a booking as cancelled. Cancelling on the start date records
// CANCELLED_SAME_DAY. Repeating a cancellation is allowed and recomputes the status.
func (s *service) Cancel(ctx context.Context, id, confirmationCode string) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	if confirmationCode == "" || confirmationCode != b.ConfirmationCode {
		recordError(span, ErrTokenMismatch)
		return nil, ErrTokenMismatch
	}

	b.Status = StatusCancelled
	if b.StartDate.Equal(clock.Today(s.clock)) {
		b.Status = StatusCancelledSameDay
	}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		recordError(span, err)
		return nil, err
	}

	s.project(b)
	s.logger.InfoContext(ctx, "reservation cancelled", "id", b.ID, "site_code", b.SiteCode, "status", b.Status)
	s.publish(ctx, events.ReservationCancelled, b)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.project(b)
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.CustomerName == "" {
		return nil, 0, ErrMissingCustomer
	}
	return s.list(ctx, filter)
}

func (s *service) ListForSite(ctx context.Context, siteCode string, filter Filter) ([]*Booking, int, error) {
	st, err := s.sites.GetByCode(ctx, siteCode)
	if err != nil {
		return nil, 0, err
	}
	filter.SiteID = st.ID
	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, ErrInvalidFilterRange
	}

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for _, b := range bookings {
		s.project(b)
	}
	return bookings, total, nil
}

func (s *service) project(b *Booking) {
	b.TotalPrice = s.prices.Calculate(b.StartDate, b.EndDate, b.SiteCode)
	b.Points = s.points.Calculate(b.StartDate, b.EndDate, b.TotalPrice)
}

// publish reports the event to the broker. The reservation is already committed,
// so a failure is only logged.
func (s *service) publish(ctx context.Context, eventType string, b *Booking) {
	err := s.publisher.Publish(ctx, events.Reservation{
		Type:          eventType,
		ReservationID: b.ID,
		SiteCode:      b.SiteCode,
		Status:        string(b.Status),
		StartDate:     calendar.Format(b.StartDate),
		EndDate:       calendar.Format(b.EndDate),
		TotalPrice:    b.TotalPrice,
		OccurredAt:    s.clock.Now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish reservation event failed", "type", eventType, "id", b.ID, "error", err)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
