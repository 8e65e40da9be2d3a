package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/javiermolinar/courtside/internal/booking/http"
	"github.com/javiermolinar/courtside/internal/db"
)

var day = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := db.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewRouter(store, Options{Logger: zerolog.Nop()})
}

func executeRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBooking(t *testing.T, r *gin.Engine, req bookingHttp.CreateBookingRequest) bookingHttp.BookingResponse {
	t.Helper()
	w := executeRequest(r, http.MethodPost, "/v1/bookings", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp bookingHttp.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func listPath(from, to time.Time, resources ...string) string {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	for _, r := range resources {
		q.Add("resource_id", r)
	}
	return "/v1/bookings?" + q.Encode()
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	w := executeRequest(r, http.MethodGet, "/v1/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBookingLifecycle(t *testing.T) {
	r := newTestRouter(t)

	var id string
	t.Run("create", func(t *testing.T) {
		resp := createBooking(t, r, bookingHttp.CreateBookingRequest{
			ResourceID:   "A",
			StartTime:    at(14, 0),
			EndTime:      at(15, 30),
			BookingType:  "lesson",
			CustomerName: "Ana Smith",
			Price:        30,
		})
		id = resp.ID
		assert.NotEmpty(t, id)
		assert.Equal(t, "confirmed", string(resp.Status))
		assert.Equal(t, "lesson", resp.Type)
		assert.True(t, resp.StartTime.Equal(at(14, 0)))
	})

	t.Run("get", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/bookings/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ana Smith", resp.CustomerName)
	})

	t.Run("list", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, listPath(day, day.AddDate(0, 0, 1), "A"), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp bookingHttp.ListBookingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, id, resp.Items[0].ID)
	})

	t.Run("move", func(t *testing.T) {
		w := executeRequest(r, http.MethodPatch, "/v1/bookings/"+id+"/move", bookingHttp.MoveBookingRequest{
			ResourceID: "B",
			StartTime:  at(16, 0),
			EndTime:    at(17, 30),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "B", resp.ResourceID)
		assert.True(t, resp.EndTime.Equal(at(17, 30)))
	})

	t.Run("cancel", func(t *testing.T) {
		w := executeRequest(r, http.MethodDelete, "/v1/bookings/"+id, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest(r, http.MethodDelete, "/v1/bookings/"+id, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCreateBooking_Errors(t *testing.T) {
	r := newTestRouter(t)
	createBooking(t, r, bookingHttp.CreateBookingRequest{ResourceID: "A", StartTime: at(10, 0), EndTime: at(11, 0)})

	tests := []struct {
		name string
		body any
		want int
	}{
		{"overlap", bookingHttp.CreateBookingRequest{ResourceID: "A", StartTime: at(10, 30), EndTime: at(11, 30)}, http.StatusConflict},
		{"missing resource", bookingHttp.CreateBookingRequest{StartTime: at(12, 0), EndTime: at(13, 0)}, http.StatusBadRequest},
		{"reversed range", bookingHttp.CreateBookingRequest{ResourceID: "A", StartTime: at(13, 0), EndTime: at(12, 0)}, http.StatusBadRequest},
		{"off grid", bookingHttp.CreateBookingRequest{ResourceID: "A", StartTime: at(12, 15), EndTime: at(13, 0)}, http.StatusBadRequest},
		{"unknown status", bookingHttp.CreateBookingRequest{ResourceID: "A", StartTime: at(12, 0), EndTime: at(13, 0), Status: "maybe"}, http.StatusBadRequest},
		{"malformed json", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeRequest(r, http.MethodPost, "/v1/bookings", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestMoveBooking_Errors(t *testing.T) {
	r := newTestRouter(t)
	moving := createBooking(t, r, bookingHttp.CreateBookingRequest{ResourceID: "A", StartTime: at(10, 0), EndTime: at(11, 0)})
	createBooking(t, r, bookingHttp.CreateBookingRequest{ResourceID: "B", StartTime: at(10, 0), EndTime: at(11, 0)})

	tests := []struct {
		name string
		id   string
		body bookingHttp.MoveBookingRequest
		want int
	}{
		{"conflict", moving.ID, bookingHttp.MoveBookingRequest{ResourceID: "B", StartTime: at(10, 30), EndTime: at(11, 30)}, http.StatusConflict},
		{"unknown booking", "missing", bookingHttp.MoveBookingRequest{ResourceID: "B", StartTime: at(12, 0), EndTime: at(13, 0)}, http.StatusNotFound},
		{"empty range", moving.ID, bookingHttp.MoveBookingRequest{ResourceID: "A", StartTime: at(12, 0), EndTime: at(12, 0)}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeRequest(r, http.MethodPatch, "/v1/bookings/"+tt.id+"/move", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestListBookings_Errors(t *testing.T) {
	r := newTestRouter(t)

	w := executeRequest(r, http.MethodGet, "/v1/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = executeRequest(r, http.MethodGet, listPath(day, day), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w := executeRequest(r, http.MethodGet, "/v1/bookings/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
