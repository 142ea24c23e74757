// Package wallet содержит бизнес-логику кошелька: регистрацию пользователей,
// чтение баланса и зачисление проверенных у провайдера платежей.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mystick682/X-TremeData/internal/lib/password"
	"github.com/Mystick682/X-TremeData/internal/lib/sl"
	"github.com/Mystick682/X-TremeData/internal/models"
	"github.com/Mystick682/X-TremeData/internal/paymentprovider"
)

const balanceCacheTTL = time.Minute

// UserRepository определяет методы для работы с пользователями и платежами в хранилище.
type UserRepository interface {
	// RegisterUser добавляет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreditBalance атомарно зачисляет сумму и фиксирует reference.
	CreditBalance(ctx context.Context, username, reference string, amount decimal.Decimal, currency string) (decimal.Decimal, error)
	// ListPayments возвращает историю зачислений пользователя.
	ListPayments(ctx context.Context, username string) ([]*models.Payment, error)
}

// TransactionVerifier описывает проверку транзакции у платёжного провайдера.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paymentprovider.TransactionData, error)
}

// Cache описывает методы для кэширования баланса.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Publisher публикует события о зачислениях. Может быть nil — публикация выключена.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

// CreditedEvent событие об успешном зачислении платежа.
type CreditedEvent struct {
	EventID    string          `json:"event_id"`
	Username   string          `json:"username"`
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CreditedAt time.Time       `json:"credited_at"`
}

// RegisterRequest входные данные регистрации, пароль в открытом виде
// живёт только до хеширования.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// WalletService реализует бизнес-логику кошелька.
type WalletService struct {
	repo     UserRepository
	verifier TransactionVerifier
	cache    Cache
	events   Publisher
	log      *slog.Logger
}

// New создает новый экземпляр WalletService.
func New(repo UserRepository, verifier TransactionVerifier, cache Cache, events Publisher, log *slog.Logger) *WalletService {
	return &WalletService{
		repo:     repo,
		verifier: verifier,
		cache:    cache,
		events:   events,
		log:      log,
	}
}

// Register хеширует пароль и создает пользователя с нулевым балансом.
// Возвращает username созданного пользователя.
func (s *WalletService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	const op = "wallet.Register"

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Balance:      decimal.New(0, -2),
	}
	id, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.Int64("id", id), slog.String("username", req.Email))
	return req.Email, nil
}

// GetBalance возвращает текущий баланс пользователя, используя кеш или хранилище.
func (s *WalletService) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	const op = "wallet.GetBalance"

	cacheKey := balanceKey(username)
	var cached decimal.Decimal
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read balance from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.cache.Set(cacheKey, user.Balance, balanceCacheTTL); err != nil {
		s.log.Warn("failed to cache balance", slog.String("key", cacheKey), sl.Err(err))
	}
	return user.Balance, nil
}

// VerifyPayment проверяет транзакцию у провайдера и зачисляет её сумму на баланс.
//
// Последовательность фиксированная: поиск пользователя, синхронный запрос к
// провайдеру, зачисление. До подтверждения провайдера баланс не изменяется.
// Сумма провайдера приходит в минимальных единицах и конвертируется точно,
// без плавающей точки.
func (s *WalletService) VerifyPayment(ctx context.Context, username, reference string) (*models.CreditResult, error) {
	const op = "wallet.VerifyPayment"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	amount := decimal.New(data.Amount, -2)
	newBalance, err := s.repo.CreditBalance(ctx, user.Username, reference, amount, data.Currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("credited verified payment",
		slog.String("username", user.Username),
		slog.String("reference", reference),
		slog.String("amount", amount.String()))

	cacheKey := balanceKey(user.Username)
	if err = s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cached balance", slog.String("key", cacheKey), sl.Err(err))
	}

	if s.events != nil {
		event := CreditedEvent{
			EventID:    uuid.New().String(),
			Username:   user.Username,
			Reference:  reference,
			Amount:     amount,
			Currency:   data.Currency,
			CreditedAt: time.Now().UTC(),
		}
		if err = s.events.Publish(ctx, event); err != nil {
			s.log.Warn("failed to publish credited event", slog.String("reference", reference), sl.Err(err))
		}
	}

	return &models.CreditResult{
		Username:   user.Username,
		NewBalance: newBalance,
		AmountPaid: amount,
	}, nil
}

// ListPayments возвращает историю зачислений пользователя.
func (s *WalletService) ListPayments(ctx context.Context, username string) ([]*models.Payment, error) {
	const op = "wallet.ListPayments"

	if _, err := s.repo.GetUserByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payments, err := s.repo.ListPayments(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

func balanceKey(username string) string {
	return "balance:" + username
}
