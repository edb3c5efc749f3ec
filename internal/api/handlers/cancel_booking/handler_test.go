package cancel_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/internal/domain"
	cancelBooking "github.com/m04kA/CourtBookingService/internal/usecase/cancel_booking"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancelBooking.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const testBookingID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

func serve(uc *MockUseCase, body string) *httptest.ResponseRecorder {
	return serveBooking(uc, testBookingID, body)
}

func serveBooking(uc *MockUseCase, bookingID, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/bookings/"+bookingID+"/cancel", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, r)
	return w
}

func TestHandle_Refunded(t *testing.T) {
	uc := &MockUseCase{}
	uc.On("Execute", mock.Anything, &cancelBooking.Request{BookingID: testBookingID, Token: "tok", Language: domain.LanguageEN}).
		Return(&cancelBooking.Response{BookingID: testBookingID, PaymentStatus: domain.PaymentRefunded}, nil)

	w := serve(uc, `{"token":"tok","language":"en"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CancelBookingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "refunded", resp.PaymentStatus)
	assert.Equal(t, msgCancelledRefund, resp.Message)
	uc.AssertExpectations(t)
}

func TestHandle_MissingToken(t *testing.T) {
	uc := &MockUseCase{}

	w := serve(uc, `{"language":"sv"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_MalformedBookingID(t *testing.T) {
	uc := &MockUseCase{}

	w := serveBooking(uc, "not-a-uuid", `{"token":"tok"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), msgInvalidBookingID)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: cancelBooking.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{err: cancelBooking.ErrInvalidToken, wantStatus: http.StatusForbidden},
		{err: cancelBooking.ErrAlreadyCancelled, wantStatus: http.StatusBadRequest},
		{err: cancelBooking.ErrAlreadyStarted, wantStatus: http.StatusBadRequest},
		{err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &MockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(uc, `{"token":"tok"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
