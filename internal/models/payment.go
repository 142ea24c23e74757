package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment представляет успешно проверенный и зачисленный платёж.
type Payment struct {
	ID        int64
	Username  string
	Reference string          // Идентификатор транзакции у провайдера (уникальный)
	Amount    decimal.Decimal // Сумма в основных единицах валюты
	Currency  string
	CreatedAt time.Time
}

// CreditResult результат успешной проверки платежа и зачисления на баланс.
type CreditResult struct {
	Username   string
	NewBalance decimal.Decimal
	AmountPaid decimal.Decimal
}
