// Package get реализует HTTP-обработчик чтения текущего баланса пользователя.
package get

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
	"github.com/Mystick682/X-TremeData/internal/storage/repository"
)

// Request — входные данные для чтения баланса.
type Request struct {
	Username string `json:"username" validate:"required"`
}

// Response — ответ с текущим балансом.
type Response struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
}

// Service описывает интерфейс бизнес-логики чтения баланса.
type Service interface {
	GetBalance(ctx context.Context, username string) (decimal.Decimal, error)
}

// Handler обрабатывает запросы на чтение баланса.
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
	const op = "handlers.balance.get"

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

	balance, err := h.service.GetBalance(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get balance"))
		return
	}

	render.JSON(w, r, Response{
		Success: true,
		Balance: balance,
	})
}
