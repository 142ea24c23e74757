package paymentprovider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_VerifyTransaction(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
		wantAmount int64
	}{
		{
			name:       "verified transaction",
			statusCode: http.StatusOK,
			body:       `{"status": true, "message": "Verification successful", "data": {"status": "success", "reference": "ref_123", "amount": 5000, "currency": "NGN"}}`,
			wantErr:    nil,
			wantAmount: 5000,
		},
		{
			name:       "top-level status false",
			statusCode: http.StatusOK,
			body:       `{"status": false, "message": "Transaction reference not found"}`,
			wantErr:    ErrTransactionDeclined,
		},
		{
			name:       "inner status not success",
			statusCode: http.StatusOK,
			body:       `{"status": true, "message": "Verification successful", "data": {"status": "failed", "reference": "ref_123", "amount": 5000, "currency": "NGN"}}`,
			wantErr:    ErrTransactionDeclined,
		},
		{
			name:       "provider returns 404",
			statusCode: http.StatusNotFound,
			body:       `{"status": false, "message": "Transaction reference not found"}`,
			wantErr:    ErrUnreachable,
		},
		{
			name:       "provider returns 500",
			statusCode: http.StatusInternalServerError,
			body:       `upstream exploded`,
			wantErr:    ErrUnreachable,
		},
		{
			name:       "malformed body",
			statusCode: http.StatusOK,
			body:       `not a json`,
			wantErr:    ErrUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
				assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "sk_test_secret", 5*time.Second)
			data, err := client.VerifyTransaction(context.Background(), "ref_123")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "want %v in chain, got %v", tt.wantErr, err)
				assert.Nil(t, data)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, data)
			assert.Equal(t, "success", data.Status)
			assert.Equal(t, "ref_123", data.Reference)
			assert.Equal(t, tt.wantAmount, data.Amount)
			assert.Equal(t, "NGN", data.Currency)
		})
	}
}

func TestClient_VerifyTransaction_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // закрываем сразу, чтобы получить отказ соединения

	client := NewClient(srv.URL, "sk_test_secret", time.Second)
	_, err := client.VerifyTransaction(context.Background(), "ref_123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestClient_VerifyTransaction_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_secret", 50*time.Millisecond)
	_, err := client.VerifyTransaction(context.Background(), "ref_123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}
