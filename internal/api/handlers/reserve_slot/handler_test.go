package reserve_slot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-ReservationService/internal/api/middleware"
	"github.com/m04kA/CWB-ReservationService/internal/domain"
	reserveSlot "github.com/m04kA/CWB-ReservationService/internal/usecase/reserve_slot"
)

type stubUseCase struct {
	resp *reserveSlot.Response
	err  error

	gotReq *reserveSlot.Request
}

func (s *stubUseCase) Execute(ctx context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error) {
	s.gotReq = req
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func postReservation(t *testing.T, handler *Handler, body string, withUser bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewBufferString(body))
	if withUser {
		req.Header.Set("X-User-ID", "7")
	}
	rec := httptest.NewRecorder()

	// Прогоняем через Auth middleware, как в реальном роутере
	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

const validBody = `{"carwashId":1,"serviceIds":[10],"bookingDate":"2026-09-02","startTime":"10:00"}`

func successResponse() *reserveSlot.Response {
	return &reserveSlot.Response{
		Token:            "8400a0f2-24dc-43f0-a65a-4f81e375a014",
		BookingID:        1001,
		CarwashID:        1,
		UserID:           7,
		BookingDate:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		RequiredCapacity: 1,
		ExpiresAt:        time.Date(2026, 9, 1, 8, 10, 0, 0, time.UTC),
		TTLSeconds:       600,
		TotalPrice:       500,
		DemandMultiplier: 1.0,
		ServiceNames:     []string{"Мойка кузова"},
	}
}

func TestHandle_ReservationCreated(t *testing.T) {
	uc := &stubUseCase{resp: successResponse()}
	handler := NewHandler(uc, nopLogger{})

	rec := postReservation(t, handler, validBody, true)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "8400a0f2-24dc-43f0-a65a-4f81e375a014", resp.Token)
	assert.Equal(t, int64(1001), resp.BookingID)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, 600, resp.TTLSeconds)

	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(7), uc.gotReq.UserID)
}

func TestHandle_SlotTakenReturns409WithAlternatives(t *testing.T) {
	uc := &stubUseCase{
		resp: &reserveSlot.Response{
			Alternatives: []domain.SlotCandidate{
				{StartTime: "09:00", EndTime: "10:00", DurationMinutes: 60, AvailableSpots: 1},
				{StartTime: "11:00", EndTime: "12:00", DurationMinutes: 60, AvailableSpots: 1},
			},
		},
		err: reserveSlot.ErrSlotTaken,
	}
	handler := NewHandler(uc, nopLogger{})

	rec := postReservation(t, handler, validBody, true)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp RejectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusConflict, resp.Code)
	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, "09:00", resp.Alternatives[0].StartTime)
	assert.Equal(t, "11:00", resp.Alternatives[1].StartTime)
}

func TestHandle_ContentionWithoutAlternatives(t *testing.T) {
	// На contention use case может не собрать альтернативы - ответ всё равно валиден
	uc := &stubUseCase{resp: nil, err: reserveSlot.ErrSlotContended}
	handler := NewHandler(uc, nopLogger{})

	rec := postReservation(t, handler, validBody, true)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp RejectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Alternatives)
	assert.Empty(t, resp.Alternatives)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "store unavailable", err: reserveSlot.ErrServiceUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "carwash not found", err: reserveSlot.ErrCarwashNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", err: reserveSlot.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "carwash closed", err: reserveSlot.ErrCarwashClosed, wantStatus: http.StatusBadRequest},
		{name: "invalid time slot", err: reserveSlot.ErrInvalidTimeSlot, wantStatus: http.StatusBadRequest},
		{name: "too late to book", err: reserveSlot.ErrTooLateToBook, wantStatus: http.StatusBadRequest},
		{name: "internal error", err: reserveSlot.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&stubUseCase{err: tt.err}, nopLogger{})
			rec := postReservation(t, handler, validBody, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_MissingUserID(t *testing.T) {
	handler := NewHandler(&stubUseCase{}, nopLogger{})

	rec := postReservation(t, handler, validBody, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_InvalidDateFormat(t *testing.T) {
	handler := NewHandler(&stubUseCase{}, nopLogger{})

	body := `{"carwashId":1,"serviceIds":[10],"bookingDate":"02.09.2026","startTime":"10:00"}`
	rec := postReservation(t, handler, body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	handler := NewHandler(&stubUseCase{}, nopLogger{})

	rec := postReservation(t, handler, `{"carwashId": "not a number"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
