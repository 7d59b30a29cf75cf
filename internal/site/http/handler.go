package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

type Handler struct {
	service site.Service
}

func NewHandler(service site.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	sites, err := h.service.List(c.Request.Context(), site.Filter{})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSiteListResponse(sites))
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSiteResponse(s))
}

// Search lists the sites that are free for the whole requested range.
func (h *Handler) Search(c *gin.Context) {
	var req SearchSitesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		if errors.Is(err, site.ErrInvalidSize) {
			response.Error(c, err)
			return
		}
		response.BadRequest(c, "dates must use YYYY-MM-DD", err)
		return
	}

	sites, err := h.service.SearchAvailable(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSiteListResponse(sites))
}

func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	start, err := request.OptionalDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "invalid start_date", err)
		return
	}
	end, err := request.OptionalDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "invalid end_date", err)
		return
	}

	q, err := h.service.Quote(c.Request.Context(), c.Param("code"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewQuoteResponse(q))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateSiteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), site.CreateRequest{
		Code:        body.Code,
		Capacity:    body.Capacity,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewSiteResponse(s))
}
