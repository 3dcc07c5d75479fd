package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SettleEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*Report, error) {
	args := m.Called(ctx, eventID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func (m *MockService) VoidEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*Report, error) {
	args := m.Called(ctx, eventID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func (m *MockService) SettleParlays(ctx context.Context, trigger models.SettlementTrigger) (*Report, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func (m *MockService) GetEventSettlements(ctx context.Context, eventID uuid.UUID) ([]Response, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]Response), args.Error(1)
}

func (m *MockService) GetReport(ctx context.Context, eventID uuid.UUID) (*Report, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func setupRouter(srv Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(srv)
	r.POST("/events/:id/settle", h.SettleEvent)
	r.GET("/events/:id/settlements", h.GetEventSettlements)
	r.GET("/events/:id/settlement-report", h.GetReport)
	r.POST("/parlays/settle", h.SettleParlays)
	return r
}

func perform(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_SettleEvent(t *testing.T) {
	id := uuid.New()

	t.Run("Settles with manual trigger", func(t *testing.T) {
		srv := &MockService{}
		srv.On("SettleEvent", mock.Anything, id, models.TriggerManual).
			Return(&Report{EventID: &id, Settled: 3, Errors: []string{}, Results: []WagerResult{}}, nil)

		w := perform(setupRouter(srv), http.MethodPost, "/events/"+id.String()+"/settle")
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data Report `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Data.Settled)
	})

	t.Run("Concurrent run is accepted", func(t *testing.T) {
		srv := &MockService{}
		srv.On("SettleEvent", mock.Anything, id, models.TriggerManual).Return(&Report{InProgress: true}, nil)

		w := perform(setupRouter(srv), http.MethodPost, "/events/"+id.String()+"/settle")
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("Unknown event", func(t *testing.T) {
		srv := &MockService{}
		srv.On("SettleEvent", mock.Anything, id, models.TriggerManual).Return(nil, models.ErrRecordNotFound)

		w := perform(setupRouter(srv), http.MethodPost, "/events/"+id.String()+"/settle")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Bad id", func(t *testing.T) {
		w := perform(setupRouter(&MockService{}), http.MethodPost, "/events/nope/settle")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetReport(t *testing.T) {
	id := uuid.New()
	srv := &MockService{}
	srv.On("GetReport", mock.Anything, id).Return(nil, models.ErrRecordNotFound).Once()
	srv.On("GetReport", mock.Anything, id).Return(nil, errors.New("redis down")).Once()

	r := setupRouter(srv)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/events/"+id.String()+"/settlement-report").Code)
	assert.Equal(t, http.StatusInternalServerError, perform(r, http.MethodGet, "/events/"+id.String()+"/settlement-report").Code)
}

func TestHandler_ListAndSweep(t *testing.T) {
	id := uuid.New()
	srv := &MockService{}
	srv.On("GetEventSettlements", mock.Anything, id).Return([]Response{{WagerID: uuid.New()}}, nil)
	srv.On("SettleParlays", mock.Anything, models.TriggerManual).Return(&Report{Settled: 2}, nil)

	r := setupRouter(srv)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/events/"+id.String()+"/settlements").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/parlays/settle").Code)
	srv.AssertExpectations(t)
}
