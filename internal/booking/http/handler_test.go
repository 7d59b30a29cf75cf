package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/campsite-booking-backend/internal/booking"
	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/events"
	"github.com/nekogravitycat/campsite-booking-backend/internal/logger"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pricing"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

// Monday 2026-03-02.
var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.Fixed(testNow)
	prices := pricing.NewPriceCalculator()
	points := pricing.NewPointCalculator(prices)

	bookingRepo := booking.NewMemoryRepository(time.Second)
	siteSvc := site.NewService(site.NewMemoryRepository(), bookingRepo, prices, points, clk)
	_, err := siteSvc.SeedDefaults(context.Background())
	require.NoError(t, err)

	svc := booking.NewService(bookingRepo, siteSvc, prices, points, events.Noop{}, clk, logger.Discard())

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc))
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func create(t *testing.T, r *gin.Engine, body string) ReservationResponse {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/v1/reservations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[ReservationResponse](t, w)
}

func TestCreateReservation(t *testing.T) {
	r := setupRouter(t)

	got := create(t, r, `{"site_code":"A-1","customer_name":"Kim","phone_number":"010-1234-5678","start_date":"2026-07-04","end_date":"2026-07-04"}`)
	assert.NotEmpty(t, got.ID)
	assert.Len(t, got.ConfirmationCode, booking.CodeLength)
	assert.Equal(t, "CONFIRMED", got.Status)
	assert.Equal(t, 136000, got.TotalPrice)
	assert.Equal(t, 13600, got.Points)
	assert.Equal(t, "2026-07-04", got.StartDate)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantReason string
	}{
		{name: "overlap", body: `{"site_code":"A-1","customer_name":"Lee","start_date":"2026-07-03","end_date":"2026-07-04"}`, wantStatus: http.StatusConflict, wantReason: "OverlapExists"},
		{name: "missing site", body: `{"customer_name":"Lee","start_date":"2026-07-03","end_date":"2026-07-04"}`, wantStatus: http.StatusConflict, wantReason: "MissingSiteCode"},
		{name: "unknown site", body: `{"site_code":"Z-1","customer_name":"Lee","start_date":"2026-07-03","end_date":"2026-07-04"}`, wantStatus: http.StatusConflict, wantReason: "SiteNotFound"},
		{name: "missing dates", body: `{"site_code":"A-2","customer_name":"Lee"}`, wantStatus: http.StatusConflict, wantReason: "MissingDateRange"},
		{name: "past", body: `{"site_code":"A-2","customer_name":"Lee","start_date":"2026-03-01","end_date":"2026-03-04"}`, wantStatus: http.StatusConflict, wantReason: "PastStartDate"},
		{name: "bad phone", body: `{"site_code":"A-2","customer_name":"Lee","phone_number":"010-12","start_date":"2026-03-03","end_date":"2026-03-04"}`, wantStatus: http.StatusConflict, wantReason: "InvalidPhoneFormat"},
		{name: "malformed date", body: `{"site_code":"A-2","customer_name":"Lee","start_date":"03/03/2026","end_date":"2026-03-04"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"site_code":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/v1/reservations", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, decode[response.ErrorResponse](t, w).Reason)
			}
		})
	}
}

func TestGetAndCancelReservation(t *testing.T) {
	r := setupRouter(t)
	created := create(t, r, `{"site_code":"B-2","customer_name":"Jung","start_date":"2026-03-02","end_date":"2026-03-03"}`)

	w := doRequest(r, http.MethodGet, "/v1/reservations/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[ReservationResponse](t, w)
	assert.Equal(t, "B-2", got.SiteCode)
	assert.Equal(t, 100000, got.TotalPrice)
	assert.Equal(t, created.ConfirmationCode, got.ConfirmationCode)

	w = doRequest(r, http.MethodGet, "/v1/reservations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/reservations/5b7c1f7e-7d59-4c1e-9f0c-3f3f0b6f4f11", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, "/v1/reservations/"+created.ID+"?confirmation_code=XXXXXX", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "TokenMismatch", decode[response.ErrorResponse](t, w).Reason)

	w = doRequest(r, http.MethodDelete, "/v1/reservations/5b7c1f7e-7d59-4c1e-9f0c-3f3f0b6f4f11?confirmation_code=XXXXXX", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ReservationNotFound", decode[response.ErrorResponse](t, w).Reason)

	w = doRequest(r, http.MethodDelete, "/v1/reservations/"+created.ID+"?confirmation_code="+created.ConfirmationCode, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CANCELLED_SAME_DAY", decode[ReservationResponse](t, w).Status)

	// The same dates can be booked again.
	create(t, r, `{"site_code":"B-2","customer_name":"Jung","start_date":"2026-03-02","end_date":"2026-03-03"}`)
}

func TestListReservations(t *testing.T) {
	r := setupRouter(t)
	create(t, r, `{"site_code":"A-1","customer_name":"Kim","phone_number":"010-1234-5678","start_date":"2026-03-10","end_date":"2026-03-11"}`)
	create(t, r, `{"site_code":"B-1","customer_name":"Kim","start_date":"2026-03-05","end_date":"2026-03-05"}`)
	create(t, r, `{"site_code":"A-1","customer_name":"Han","start_date":"2026-03-20","end_date":"2026-03-21"}`)

	w := doRequest(r, http.MethodGet, "/v1/reservations?customer_name=Kim", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[response.PageResponse[ReservationResponse]](t, w)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "B-1", page.Items[0].SiteCode)

	w = doRequest(r, http.MethodGet, "/v1/reservations?customer_name=Kim&phone_number=010-1234-5678", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[response.PageResponse[ReservationResponse]](t, w).Total)

	w = doRequest(r, http.MethodGet, "/v1/reservations", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/admin/sites/A-1/reservations?from=2026-03-15", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page = decode[response.PageResponse[ReservationResponse]](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Han", page.Items[0].CustomerName)

	w = doRequest(r, http.MethodGet, "/v1/admin/sites/A-1/reservations?status=PENDING", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/admin/sites/Q-1/reservations", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
