// Package verify реализует HTTP-обработчик проверки платежа и зачисления на баланс.
//
// Проверка выполняется синхронно внутри запроса: обработчик блокируется
// до ответа провайдера либо до его таймаута. Транспортный сбой (502)
// и отклонённая транзакция (400) — разные исходы: первый можно повторить,
// второй — нет.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/Mystick682/X-TremeData/internal/http/response"
	"github.com/Mystick682/X-TremeData/internal/lib/sl"
	"github.com/Mystick682/X-TremeData/internal/models"
	"github.com/Mystick682/X-TremeData/internal/paymentprovider"
	"github.com/Mystick682/X-TremeData/internal/storage/repository"
)

// Request — входные данные для проверки платежа.
type Request struct {
	Username  string `json:"username" validate:"required"`
	Reference string `json:"reference" validate:"required"`
}

// Response — ответ при успешном зачислении.
type Response struct {
	Success    bool            `json:"success"`
	Username   string          `json:"username"`
	NewBalance decimal.Decimal `json:"new_balance"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// Service описывает интерфейс бизнес-логики проверки платежа.
type Service interface {
	VerifyPayment(ctx context.Context, username, reference string) (*models.CreditResult, error)
}

// Handler обрабатывает запросы на проверку платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), req.Username, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, paymentprovider.ErrUnreachable):
			log.Error("payment provider unreachable", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to contact payment provider"))
		case errors.Is(err, paymentprovider.ErrTransactionDeclined):
			log.Info("payment verification declined", slog.String("reference", req.Reference))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		case errors.Is(err, repository.ErrReferenceAlreadyUsed):
			log.Info("reference already credited", slog.String("reference", req.Reference))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("transaction reference already credited"))
		default:
			log.Error("payment verification failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to verify payment"))
		}
		return
	}

	render.JSON(w, r, Response{
		Success:    true,
		Username:   result.Username,
		NewBalance: result.NewBalance,
		AmountPaid: result.AmountPaid,
	})
}
