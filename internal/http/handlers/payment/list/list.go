// Package list реализует HTTP-обработчик истории зачислений пользователя.
package list

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/Mystick682/X-TremeData/internal/http/response"
	"github.com/Mystick682/X-TremeData/internal/lib/sl"
	"github.com/Mystick682/X-TremeData/internal/models"
	"github.com/Mystick682/X-TremeData/internal/storage/repository"
)

// Request — входные данные для запроса истории.
type Request struct {
	Username string `json:"username" validate:"required"`
}

// PaymentView представление одного зачисления в ответе.
type PaymentView struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// Response — ответ с историей зачислений.
type Response struct {
	Success  bool          `json:"success"`
	Payments []PaymentView `json:"payments"`
}

// Service описывает интерфейс бизнес-логики истории зачислений.
type Service interface {
	ListPayments(ctx context.Context, username string) ([]*models.Payment, error)
}

// Handler обрабатывает запросы истории зачислений.
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
	const op = "handlers.payment.list"

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

	payments, err := h.service.ListPayments(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list payments"))
		return
	}

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{
			Reference: p.Reference,
			Amount:    p.Amount,
			Currency:  p.Currency,
			CreatedAt: p.CreatedAt,
		})
	}

	render.JSON(w, r, Response{
		Success:  true,
		Payments: views,
	})
}
