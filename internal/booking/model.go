package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/request"
)

// Admission rejections. Every one of them answers 409 on the create route.
var (
	ErrMissingSiteCode        = apperror.New(http.StatusConflict, "MissingSiteCode", "site code is required")
	ErrSiteNotFound           = apperror.New(http.StatusConflict, "SiteNotFound", "site does not exist")
	ErrMissingDateRange       = apperror.New(http.StatusConflict, "MissingDateRange", "start date and end date are required")
	ErrEndBeforeStart         = apperror.New(http.StatusConflict, "EndBeforeStart", "end date cannot be before start date")
	ErrPastStartDate          = apperror.New(http.StatusConflict, "PastStartDate", "cannot book a past date")
	ErrRangeTooLong           = apperror.New(http.StatusConflict, "RangeTooLong", "a reservation cannot exceed 30 days")
	ErrMissingCustomerName    = apperror.New(http.StatusConflict, "MissingCustomerName", "customer name is required")
	ErrNameTooShort           = apperror.New(http.StatusConflict, "NameTooShort", "customer name must be at least 2 characters")
	ErrNameTooLong            = apperror.New(http.StatusConflict, "NameTooLong", "customer name must be at most 20 characters")
	ErrInvalidPhoneFormat     = apperror.New(http.StatusConflict, "InvalidPhoneFormat", "phone number must have 10 or 11 digits")
	ErrInvalidPhoneCharacters = apperror.New(http.StatusConflict, "InvalidPhoneCharacters", "phone number may only contain digits and hyphens")
	ErrOverlapExists          = apperror.New(http.StatusConflict, "OverlapExists", "the site is already reserved for the requested dates")
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "ReservationNotFound", "reservation not found")
	ErrTokenMismatch      = apperror.New(http.StatusBadRequest, "TokenMismatch", "confirmation code does not match")
	ErrLockTimeout        = apperror.New(http.StatusServiceUnavailable, "LockTimeout", "the site is busy, please retry")
	ErrMissingCustomer    = apperror.New(http.StatusBadRequest, "MissingCustomerName", "customer_name is required")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "InvalidStatus", "status must be one of: CONFIRMED, CANCELLED, CANCELLED_SAME_DAY")
	ErrInvalidFilterRange = apperror.New(http.StatusBadRequest, "EndBeforeStart", "to cannot be before from")
)

// ErrOverlapConstraint is returned by a store that refused a CONFIRMED row overlapping another.
// Admission serializes per site, so seeing it means the lock protocol was bypassed.
var ErrOverlapConstraint = errors.New("confirmed reservations overlap")

type Status string

const (
	StatusConfirmed        Status = "CONFIRMED"
	StatusCancelled        Status = "CANCELLED"
	StatusCancelledSameDay Status = "CANCELLED_SAME_DAY"
)

// ParseStatus validates a status filter. An empty string means no filter.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case "", StatusConfirmed, StatusCancelled, StatusCancelledSameDay:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Booking is a reservation of one site for an inclusive range of calendar dates.
type Booking struct {
	ID               string
	SiteID           string
	SiteCode         string
	CustomerName     string
	PhoneNumber      string
	StartDate        time.Time
	EndDate          time.Time
	Status           Status
	ConfirmationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Derived from the dates and site code on every read; never stored.
	TotalPrice int
	Points     int
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

type Filter struct {
	CustomerName string
	PhoneNumber  string
	SiteID       string
	Status       Status
	From         *time.Time // bookings ending on or after this date
	To           *time.Time // bookings starting on or before this date
	Page         int
	PageSize     int
}

// pagination returns the filter's page with defaults applied.
func (f Filter) pagination() request.ListParams {
	p := request.ListParams{Page: f.Page, PageSize: f.PageSize}
	p.Normalize()
	return p
}
