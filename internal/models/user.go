// Package models содержит доменную модель пользователя кошелька:
// учётные данные, отображаемое имя и текущий баланс.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	ID           int64           // Суррогатный идентификатор, назначается базой
	Username     string          // Email пользователя, внешний ключ аккаунта (уникальный)
	PasswordHash string          // Хэш пароля, в открытом виде пароль нигде не хранится
	FirstName    string          // Имя (опционально)
	LastName     string          // Фамилия (опционально)
	Balance      decimal.Decimal // Баланс в основных единицах валюты, NUMERIC(12,2)
	CreatedAt    time.Time
}
