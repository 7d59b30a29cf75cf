package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/campsite-booking-backend/internal/booking"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req, err := body.ToCreateRequest()
	if err != nil {
		response.BadRequest(c, "dates must use YYYY-MM-DD", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid reservation id", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewReservationResponse(b))
}

// Cancel answers 400 for an unknown reservation as well as for a wrong code.
func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid reservation id", err)
		return
	}

	var query CancelReservationRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), uri.ID, query.ConfirmationCode)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			err = booking.ErrNotFound.WithCode(http.StatusBadRequest)
		}
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewReservationResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := req.ToFilter()
	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPageResponse(NewReservationListResponse(bookings), filter.Page, filter.PageSize, total))
}

// ListForSite is the admin view of every reservation on one site.
func (h *Handler) ListForSite(c *gin.Context) {
	var req ListSiteReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	bookings, total, err := h.service.ListForSite(c.Request.Context(), c.Param("code"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPageResponse(NewReservationListResponse(bookings), filter.Page, filter.PageSize, total))
}
