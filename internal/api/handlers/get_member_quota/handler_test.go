package get_member_quota

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/internal/service/members"
	"github.com/m04kA/CourtBookingService/internal/service/members/models"
)

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetQuota(ctx context.Context, email string) (*models.QuotaResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuotaResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *MockMemberService, email string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/members/"+email, nil)
	r = mux.SetURLVars(r, map[string]string{"email": email})
	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, r)
	return w
}

func TestHandle_Member(t *testing.T) {
	svc := &MockMemberService{}
	svc.On("GetQuota", mock.Anything, "anna@example.com").
		Return(&models.QuotaResponse{IsMember: true, SlotsRemaining: 3}, nil)

	w := serve(svc, "anna@example.com")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.QuotaResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.IsMember)
	assert.Equal(t, 3, resp.SlotsRemaining)
}

func TestHandle_NonMember(t *testing.T) {
	svc := &MockMemberService{}
	svc.On("GetQuota", mock.Anything, "guest@example.com").
		Return(&models.QuotaResponse{}, nil)

	w := serve(svc, "guest@example.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isMember":false,"slotsRemaining":0}`, w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	svc := &MockMemberService{}
	svc.On("GetQuota", mock.Anything, "bad").Return(nil, members.ErrInvalidInput)
	svc.On("GetQuota", mock.Anything, "x@example.com").Return(nil, errors.New("db down"))

	assert.Equal(t, http.StatusBadRequest, serve(svc, "bad").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "x@example.com").Code)
}
