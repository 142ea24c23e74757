// Package paymentprovider реализует клиент API платёжного провайдера (Paystack).
// Единственная операция — синхронная проверка транзакции по reference.
//
// Сертификат провайдера проверяется штатным транспортом, никаких обходов TLS.
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrUnreachable транспортный сбой: DNS, TLS, таймаут или не-2xx ответ.
	// Состояние не изменялось, запрос можно повторить целиком.
	ErrUnreachable = errors.New("payment provider unreachable")
	// ErrTransactionDeclined провайдер доступен, но транзакцию не подтвердил.
	// Повтор с тем же reference не поможет.
	ErrTransactionDeclined = errors.New("transaction verification declined")
)

// Client клиент API провайдера.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient создаёт новый клиент с таймаутом на весь запрос.
// Нулевой timeout заменяется значением по умолчанию 10s.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyTransaction запрашивает у провайдера финальный статус транзакции.
//
// Возвращает данные транзакции при подтверждённом успехе, иначе ошибку,
// оборачивающую ErrUnreachable либо ErrTransactionDeclined.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*TransactionData, error) {
	const op = "paymentprovider.VerifyTransaction"

	reqURL := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: %w: unexpected status %s", op, ErrUnreachable, resp.Status)
	}

	var verifyResp verifyResponse
	if err = json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnreachable, err)
	}

	if !verifyResp.Status || verifyResp.Data.Status != "success" {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrTransactionDeclined, verifyResp.Message)
	}

	data := verifyResp.Data
	return &data, nil
}
