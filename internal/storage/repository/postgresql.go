// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями кошелька и зачисленными платежами.
// Предоставляет регистрацию, чтение баланса, атомарное зачисление
// проверенного платежа и историю зачислений.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Коды ошибок PostgreSQL, которые хранилище переводит в доменные ошибки.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var (
	// ErrUserAlreadyExists возвращается при регистрации с занятым email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, когда пользователь с таким username отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrReferenceAlreadyUsed возвращается при попытке повторно зачислить
	// уже использованный transaction reference.
	ErrReferenceAlreadyUsed = errors.New("transaction reference already used")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
// Конструируется один раз при старте процесса и передаётся явно,
// глобального состояния нет.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных после миграций.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
