package site

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "SiteNotFound", "site not found")
	ErrDuplicateCode    = apperror.New(http.StatusConflict, "DuplicateSiteCode", "site code already exists")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "InvalidInput", "site code and a positive capacity are required")
	ErrInvalidSize      = apperror.New(http.StatusBadRequest, "InvalidSizeFilter", "size must be one of: large, small")
	ErrMissingDateRange = apperror.New(http.StatusBadRequest, "MissingDateRange", "start_date and end_date are required")
	ErrEndBeforeStart   = apperror.New(http.StatusBadRequest, "EndBeforeStart", "end date cannot be before start date")
	ErrPastStartDate    = apperror.New(http.StatusBadRequest, "PastStartDate", "cannot search past dates")
	ErrRangeTooLong     = apperror.New(http.StatusBadRequest, "RangeTooLong", "a quote cannot exceed 30 days")
)

// MaxQuoteDays matches the longest stay a reservation may cover.
const MaxQuoteDays = 30

// Size is the class of a site, encoded in the first letter of its code.
type Size string

const (
	SizeLarge Size = "large"
	SizeSmall Size = "small"
	SizeOther Size = "other"
)

// SizeOf classifies a site code.
func SizeOf(code string) Size {
	switch {
	case strings.HasPrefix(code, "A"):
		return SizeLarge
	case strings.HasPrefix(code, "B"):
		return SizeSmall
	default:
		return SizeOther
	}
}

// ParseSize validates a size filter. An empty string means no filter.
func ParseSize(s string) (Size, error) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case SizeLarge:
		return SizeLarge, nil
	case SizeSmall:
		return SizeSmall, nil
	default:
		return "", ErrInvalidSize
	}
}

// CodePrefix returns the code prefix a size filter matches.
func (s Size) CodePrefix() string {
	switch s {
	case SizeLarge:
		return "A"
	case SizeSmall:
		return "B"
	default:
		return ""
	}
}

// Site is a bookable pitch identified by a code such as "A-1".
type Site struct {
	ID          string
	Code        string
	Capacity    int
	Description string
	CreatedAt   time.Time
}

func (s *Site) Size() Size {
	return SizeOf(s.Code)
}

// Filter narrows a catalog listing.
type Filter struct {
	CodePrefix string
}

// SearchFilter describes an availability search.
type SearchFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Size      Size
}

// Quote is the price breakdown for a prospective stay.
type Quote struct {
	Site       *Site
	StartDate  time.Time
	EndDate    time.Time
	Nights     int
	TotalPrice int
	PointRate  float64
	Points     int
}
