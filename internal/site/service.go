package site

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pricing"
)

type CreateRequest struct {
	Code        string
	Capacity    int
	Description string
}

// OccupancyReader reports which sites hold a CONFIRMED booking overlapping [start, end].
type OccupancyReader interface {
	OccupiedSiteIDs(ctx context.Context, start, end time.Time) (map[string]struct{}, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Site, error)
	GetByID(ctx context.Context, id string) (*Site, error)
	GetByCode(ctx context.Context, code string) (*Site, error)
	List(ctx context.Context, filter Filter) ([]*Site, error)
	SearchAvailable(ctx context.Context, filter SearchFilter) ([]*Site, error)
	Quote(ctx context.Context, code string, start, end *time.Time) (*Quote, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type service struct {
	repo      Repository
	occupancy OccupancyReader
	prices    *pricing.PriceCalculator
	points    *pricing.PointCalculator
	clock     clock.Clock
}

func NewService(
	repo Repository,
	occupancy OccupancyReader,
	prices *pricing.PriceCalculator,
	points *pricing.PointCalculator,
	clk clock.Clock,
) Service {
	return &service{
		repo:      repo,
		occupancy: occupancy,
		prices:    prices,
		points:    points,
		clock:     clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Site, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || req.Capacity <= 0 {
		return nil, ErrInvalidInput
	}

	site := &Site{
		Code:        code,
		Capacity:    req.Capacity,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Site, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByCode(ctx context.Context, code string) (*Site, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Site, error) {
	return s.repo.List(ctx, filter)
}

// SearchAvailable lists sites of the requested size with no CONFIRMED booking in the range.
func (s *service) SearchAvailable(ctx context.Context, filter SearchFilter) ([]*Site, error) {
	start, end, err := s.checkRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	sites, err := s.repo.List(ctx, Filter{CodePrefix: filter.Size.CodePrefix()})
	if err != nil {
		return nil, err
	}

	occupied, err := s.occupancy.OccupiedSiteIDs(ctx, start, end)
	if err != nil {
		return nil, err
	}

	available := make([]*Site, 0, len(sites))
	for _, site := range sites {
		if _, taken := occupied[site.ID]; !taken {
			available = append(available, site)
		}
	}
	return available, nil
}

func (s *service) Quote(ctx context.Context, code string, startDate, endDate *time.Time) (*Quote, error) {
	start, end, err := s.checkRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	days := calendar.DaysBetween(start, end)
	if days > MaxQuoteDays {
		return nil, ErrRangeTooLong
	}

	site, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	total := s.prices.Calculate(start, end, site.Code)
	return &Quote{
		Site:       site,
		StartDate:  start,
		EndDate:    end,
		Nights:     days + 1,
		TotalPrice: total,
		PointRate:  s.points.Rate(start, end),
		Points:     s.points.Calculate(start, end, total),
	}, nil
}

// SeedDefaults fills an empty catalog with the standard six sites and reports how many were added.
func (s *service) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defaults := []CreateRequest{
		{Code: "A-1", Capacity: 6, Description: "Large site with power"},
		{Code: "A-2", Capacity: 6, Description: "Large site with power"},
		{Code: "A-3", Capacity: 6, Description: "Large site with power"},
		{Code: "B-1", Capacity: 4, Description: "Small site with power"},
		{Code: "B-2", Capacity: 4, Description: "Small site with power"},
		{Code: "B-3", Capacity: 4, Description: "Small site with power"},
	}

	added := 0
	for _, req := range defaults {
		if _, err := s.Create(ctx, req); err != nil {
			if errors.Is(err, ErrDuplicateCode) {
				continue
			}
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *service) checkRange(startDate, endDate *time.Time) (time.Time, time.Time, error) {
	if startDate == nil || endDate == nil {
		return time.Time{}, time.Time{}, ErrMissingDateRange
	}

	start, end := calendar.Truncate(*startDate), calendar.Truncate(*endDate)
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrEndBeforeStart
	}
	if start.Before(clock.Today(s.clock)) {
		return time.Time{}, time.Time{}, ErrPastStartDate
	}
	return start, end, nil
}
