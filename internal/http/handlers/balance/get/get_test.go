package get

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

	"github.com/go-chi/chi/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Mystick682/X-TremeData/internal/storage/repository"
)

// Мок сервиса с методом GetBalance.
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestGetHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockBalance    decimal.Decimal
		mockErr        error
		mockCall       bool
		wantStatusCode int
		wantBalance    string
		wantError      string
	}{
		{
			name:           "existing user",
			requestBody:    Request{Username: "user1@example.com"},
			mockBalance:    decimal.New(5000, -2),
			mockCall:       true,
			wantStatusCode: http.StatusOK,
			wantBalance:    "50.00",
		},
		{
			name:           "zero balance after registration",
			requestBody:    Request{Username: "fresh@example.com"},
			mockBalance:    decimal.New(0, -2),
			mockCall:       true,
			wantStatusCode: http.StatusOK,
			wantBalance:    "0.00",
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
			wantError:      "failed to get balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockCall {
				serviceMock.On("GetBalance", mock.Anything, mock.Anything).
					Return(tt.mockBalance, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/get_balance", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, false, got["success"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, true, got["success"])
				// decimal сериализуется строкой с фиксированной точностью
				assert.Equal(t, tt.wantBalance, got["balance"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
