package http

import (
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

// SearchSitesRequest defines query parameters for the availability search.
type SearchSitesRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Size      string `form:"size"`
}

// ToFilter parses the raw query values into a search filter.
func (r *SearchSitesRequest) ToFilter() (site.SearchFilter, error) {
	start, err := request.OptionalDate(r.StartDate)
	if err != nil {
		return site.SearchFilter{}, err
	}
	end, err := request.OptionalDate(r.EndDate)
	if err != nil {
		return site.SearchFilter{}, err
	}
	size, err := site.ParseSize(r.Size)
	if err != nil {
		return site.SearchFilter{}, err
	}
	return site.SearchFilter{StartDate: start, EndDate: end, Size: size}, nil
}

// QuoteRequest defines query parameters for a price quote.
type QuoteRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type SiteResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Capacity    int       `json:"capacity"`
	Size        string    `json:"size"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewSiteResponse(s *site.Site) SiteResponse {
	return SiteResponse{
		ID:          s.ID,
		Code:        s.Code,
		Capacity:    s.Capacity,
		Size:        string(s.Size()),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

func NewSiteListResponse(sites []*site.Site) []SiteResponse {
	items := make([]SiteResponse, len(sites))
	for i, s := range sites {
		items[i] = NewSiteResponse(s)
	}
	return items
}

type QuoteResponse struct {
	SiteCode   string  `json:"site_code"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Nights     int     `json:"nights"`
	TotalPrice int     `json:"total_price"`
	PointRate  float64 `json:"point_rate"`
	Points     int     `json:"points"`
}

func NewQuoteResponse(q *site.Quote) QuoteResponse {
	return QuoteResponse{
		SiteCode:   q.Site.Code,
		StartDate:  calendar.Format(q.StartDate),
		EndDate:    calendar.Format(q.EndDate),
		Nights:     q.Nights,
		TotalPrice: q.TotalPrice,
		PointRate:  q.PointRate,
		Points:     q.Points,
	}
}

type CreateSiteBody struct {
	Code        string `json:"code" binding:"required,min=1,max=20"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Description string `json:"description" binding:"max=200"`
}
