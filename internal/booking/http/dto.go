package http

import (
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/booking"
	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/request"
)

// CreateReservationBody carries no binding rules: missing fields are admission
// rejections reported by the service, not malformed requests.
type CreateReservationBody struct {
	SiteCode     string `json:"site_code"`
	CustomerName string `json:"customer_name"`
	PhoneNumber  string `json:"phone_number"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// ToCreateRequest parses the dates. Only a malformed date is an error here.
func (b *CreateReservationBody) ToCreateRequest() (booking.CreateRequest, error) {
	start, err := request.OptionalDate(b.StartDate)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	end, err := request.OptionalDate(b.EndDate)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	return booking.CreateRequest{
		SiteCode:     b.SiteCode,
		CustomerName: b.CustomerName,
		PhoneNumber:  b.PhoneNumber,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

type CancelReservationRequest struct {
	ConfirmationCode string `form:"confirmation_code"`
}

// ListReservationsRequest defines query parameters for a customer's reservation lookup.
type ListReservationsRequest struct {
	request.ListParams
	CustomerName string `form:"customer_name" binding:"required"`
	PhoneNumber  string `form:"phone_number"`
}

func (r *ListReservationsRequest) ToFilter() booking.Filter {
	r.Normalize()
	return booking.Filter{
		CustomerName: r.CustomerName,
		PhoneNumber:  r.PhoneNumber,
		Page:         r.Page,
		PageSize:     r.PageSize,
	}
}

// ListSiteReservationsRequest defines query parameters for the admin view of one site.
type ListSiteReservationsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=CONFIRMED CANCELLED CANCELLED_SAME_DAY"`
	From   string `form:"from"`
	To     string `form:"to"`
}

func (r *ListSiteReservationsRequest) ToFilter() (booking.Filter, error) {
	r.Normalize()
	status, err := booking.ParseStatus(r.Status)
	if err != nil {
		return booking.Filter{}, err
	}
	from, err := request.OptionalDate(r.From)
	if err != nil {
		return booking.Filter{}, err
	}
	to, err := request.OptionalDate(r.To)
	if err != nil {
		return booking.Filter{}, err
	}
	return booking.Filter{
		Status:   status,
		From:     from,
		To:       to,
		Page:     r.Page,
		PageSize: r.PageSize,
	}, nil
}

type ReservationResponse struct {
	ID               string    `json:"id"`
	SiteCode         string    `json:"site_code"`
	CustomerName     string    `json:"customer_name"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	Status           string    `json:"status"`
	ConfirmationCode string    `json:"confirmation_code"`
	TotalPrice       int       `json:"total_price"`
	Points           int       `json:"points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewReservationResponse(b *booking.Booking) ReservationResponse {
	return ReservationResponse{
		ID:               b.ID,
		SiteCode:         b.SiteCode,
		CustomerName:     b.CustomerName,
		PhoneNumber:      b.PhoneNumber,
		StartDate:        calendar.Format(b.StartDate),
		EndDate:          calendar.Format(b.EndDate),
		Status:           string(b.Status),
		ConfirmationCode: b.ConfirmationCode,
		TotalPrice:       b.TotalPrice,
		Points:           b.Points,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func NewReservationListResponse(bookings []*booking.Booking) []ReservationResponse {
	items := make([]ReservationResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewReservationResponse(b)
	}
	return items
}
