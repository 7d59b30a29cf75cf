package booking

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

const (
	MaxStayDays   = 30
	NameMinLength = 2
	NameMaxLength = 20
)

// SiteLookup resolves a site code. site.Service satisfies it.
type SiteLookup interface {
	GetByCode(ctx context.Context, code string) (*site.Site, error)
}

// ValidatedRequest is a CreateRequest that passed every check, with strings trimmed.
type ValidatedRequest struct {
	Site         *site.Site
	CustomerName string
	PhoneNumber  string
	StartDate    time.Time
	EndDate      time.Time
}

// Validator runs the admission checks in a fixed order and reports the first failure.
type Validator struct {
	sites SiteLookup
	clock clock.Clock
}

func NewValidator(sites SiteLookup, clk clock.Clock) *Validator {
	return &Validator{sites: sites, clock: clk}
}

func (v *Validator) Validate(ctx context.Context, req CreateRequest) (*ValidatedRequest, error) {
	// 1. Site
	code := strings.TrimSpace(req.SiteCode)
	if code == "" {
		return nil, ErrMissingSiteCode
	}
	s, err := v.sites.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}

	// 2. Dates
	if req.StartDate == nil || req.EndDate == nil {
		return nil, ErrMissingDateRange
	}
	start, end := calendar.Truncate(*req.StartDate), calendar.Truncate(*req.EndDate)
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}
	if start.Before(clock.Today(v.clock)) {
		return nil, ErrPastStartDate
	}
	if calendar.DaysBetween(start, end) > MaxStayDays {
		return nil, ErrRangeTooLong
	}

	// 3. Customer
	name, err := validateName(req.CustomerName)
	if err != nil {
		return nil, err
	}
	phone, err := validatePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	return &ValidatedRequest{
		Site:         s,
		CustomerName: name,
		PhoneNumber:  phone,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrMissingCustomerName
	}
	n := utf8.RuneCountInString(name)
	if n < NameMinLength {
		return "", ErrNameTooShort
	}
	if n > NameMaxLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// validatePhone accepts an empty number. Otherwise only digits and hyphens are
// allowed and there must be 10 or 11 digits.
func validatePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", nil
	}

	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-':
		default:
			return "", ErrInvalidPhoneCharacters
		}
	}
	if digits != 10 && digits != 11 {
		return "", ErrInvalidPhoneFormat
	}
	return phone, nil
}
