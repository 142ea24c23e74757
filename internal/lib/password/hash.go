// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Используется argon2id — memory-hard функция, устойчивая к перебору на GPU.
// GetHash создает хэш пароля для безопасного хранения, CompareHash проверяет
// соответствие пароля сохранённому хэшу.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры argon2id. Единственная ручка усиления — выбор алгоритма,
// пер-пользовательская настройка стоимости не применяется.
const (
	timeCost   = 1
	memoryCost = 64 * 1024
	threads    = 4
	saltLen    = 16
	keyLen     = 32
)

var (
	// ErrMismatch возвращается, когда пароль не соответствует хэшу.
	ErrMismatch = errors.New("password does not match hash")
	// ErrInvalidHash возвращается при повреждённой или чужой строке хэша.
	ErrInvalidHash = errors.New("invalid argon2id hash format")
)

// GetHash принимает пароль пользователя и возвращает его argon2id-хэш
// в PHC-формате: $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>.
func GetHash(pw string) (string, error) {
	const op = "password.GetHash"

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := argon2.IDKey([]byte(pw), salt, timeCost, memoryCost, threads, keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryCost, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
	return encoded, nil
}

// CompareHash сравнивает argon2id-хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
// Сравнение выполняется за константное время.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"

	memory, time, parallelism, salt, key, err := decodeHash(originalHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	candidate := argon2.IDKey([]byte(externalPassword), salt, time, memory, parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, candidate) != 1 {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	return nil
}

func decodeHash(encoded string) (memory, time uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	return memory, time, parallelism, salt, key, nil
}
