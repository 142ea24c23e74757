package list

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Mystick682/X-TremeData/internal/models"
	"github.com/Mystick682/X-TremeData/internal/storage/repository"
)

// Мок сервиса с методом ListPayments.
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListPayments(ctx context.Context, username string) ([]*models.Payment, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListHandler_ServeHTTP(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	payments := []*models.Payment{
		{
			ID:        2,
			Username:  "user1@example.com",
			Reference: "ref_456",
			Amount:    decimal.New(2550, -2),
			Currency:  "NGN",
			CreatedAt: now,
		},
		{
			ID:        1,
			Username:  "user1@example.com",
			Reference: "ref_123",
			Amount:    decimal.New(5000, -2),
			Currency:  "NGN",
			CreatedAt: now.Add(-time.Hour),
		},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResult     []*models.Payment
		mockErr        error
		mockCall       bool
		wantStatusCode int
		wantError      string
		wantCount      int
	}{
		{
			name:           "history with two payments",
			requestBody:    Request{Username: "user1@example.com"},
			mockResult:     payments,
			mockCall:       true,
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:           "empty history",
			requestBody:    Request{Username: "user1@example.com"},
			mockResult:     []*models.Payment{},
			mockCall:       true,
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name:           "unknown user",
			requestBody:    Request{Username: "ghost@example.com"},
			mockErr:        repository.ErrUserNotFound,
			mockCall:       true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing username",
			requestBody:    Request{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Username is a required field",
		},
		{
			name:           "storage error",
			requestBody:    Request{Username: "user1@example.com"},
			mockErr:        errors.New("connection reset"),
			mockCall:       true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to list payments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockCall {
				serviceMock.On("ListPayments", mock.Anything, mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/list_payments", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantError != "" {
				var got map[string]any
				err = json.NewDecoder(rec.Body).Decode(&got)
				assert.NoError(t, err)
				assert.Equal(t, false, got["success"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				var got Response
				err = json.NewDecoder(rec.Body).Decode(&got)
				assert.NoError(t, err)
				assert.True(t, got.Success)
				assert.Len(t, got.Payments, tt.wantCount)
				if tt.wantCount == 2 {
					assert.Equal(t, "ref_456", got.Payments[0].Reference)
					assert.Equal(t, "25.50", got.Payments[0].Amount.String())
					assert.Equal(t, "NGN", got.Payments[0].Currency)
				}
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
