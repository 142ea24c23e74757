package paymentprovider

// Ответ Paystack на проверку транзакции по reference.
// Транзакция считается успешной только когда верхний Status равен true
// И вложенный Data.Status равен "success".
type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    TransactionData `json:"data"`
}

// TransactionData данные проверенной транзакции.
type TransactionData struct {
	Status    string `json:"status"`    // Статус транзакции у провайдера
	Reference string `json:"reference"` // Идентификатор транзакции
	Amount    int64  `json:"amount"`    // Сумма в минимальных единицах валюты (копейки/центы)
	Currency  string `json:"currency"`
}
