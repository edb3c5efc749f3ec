package release_pending_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	releasePending "github.com/m04kA/CourtBookingService/internal/usecase/release_pending_booking"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *releasePending.Request) (*releasePending.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*releasePending.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *MockUseCase, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/payments/release-pending-booking", strings.NewReader(body))
	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, r)
	return w
}

func TestHandle_Released(t *testing.T) {
	uc := &MockUseCase{}
	uc.On("Execute", mock.Anything, &releasePending.Request{BookingID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", Reason: releasePending.ReasonAbandoned}).
		Return(&releasePending.Response{BookingID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", ReleasedSlots: 2}, nil)

	w := serve(uc, `{"bookingId":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReleasePendingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.ReleasedSlots)
	uc.AssertExpectations(t)
}

func TestHandle_UnknownField(t *testing.T) {
	uc := &MockUseCase{}

	w := serve(uc, `{"bookingId":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d","force":true}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_MalformedBookingID(t *testing.T) {
	uc := &MockUseCase{}

	w := serve(uc, `{"bookingId":"not-a-uuid"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"tag":"uuid"`)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: releasePending.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{err: releasePending.ErrNotPending, wantStatus: http.StatusBadRequest},
		{err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &MockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			assert.Equal(t, tt.wantStatus, serve(uc, `{"bookingId":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"}`).Code)
		})
	}
}
