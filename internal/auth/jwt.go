// Package auth проверяет JWT, выпущенные сервисом идентификации
package auth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// maxExactID наибольший id, который float64 из JSON передает без потерь
const maxExactID = 1 << 53

// Verifier выпускает и проверяет HS256-токены с числовым claim user_id
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// GenerateToken выпускает токен для userID со сроком жизни ttl.
// Рабочие токены выпускает сервис идентификации, здесь он нужен для тестов и локальной отладки
func (v *Verifier) GenerateToken(userID int64, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// VerifyToken проверяет подпись и срок действия, возвращает user_id
func (v *Verifier) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	// числа в MapClaims декодируются как float64
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return 0, fmt.Errorf("%w: нет user_id", ErrInvalidToken)
	}
	if raw != math.Trunc(raw) || raw > maxExactID {
		return 0, fmt.Errorf("%w: некорректный user_id %v", ErrInvalidToken, raw)
	}
	return int64(raw), nil
}
