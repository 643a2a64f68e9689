package adminauth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName имя cookie админ-сессии
const CookieName = "tpd_admin_session"

// Service аутентификация админ-панели: один пароль, сессия в подписанном JWT
type Service struct {
	password      string
	sessionSecret []byte
	sessionTTL    time.Duration
	rateLimiter   RateLimiter
	logger        Logger
	now           func() time.Time
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(password, sessionSecret string, sessionTTL time.Duration, rateLimiter RateLimiter, logger Logger) *Service {
	return &Service{
		password:      password,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		rateLimiter:   rateLimiter,
		logger:        logger,
		now:           time.Now,
	}
}

// SessionTTL возвращает срок жизни сессии (для max-age cookie)
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login проверяет пароль и выдает токен сессии.
// Попытки ограничиваются по ключу клиента (IP).
func (s *Service) Login(clientKey, password string) (string, error) {
	if !s.rateLimiter.Allow(clientKey) {
		s.logger.Warn("Login: rate limit exceeded for %s", clientKey)
		return "", ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		s.logger.Warn("Login: invalid password attempt from %s", clientKey)
		return "", ErrInvalidCredentials
	}

	s.rateLimiter.Reset(clientKey)

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
	})

	signed, err := token.SignedString(s.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info("Login: admin session issued for %s", clientKey)
	return signed, nil
}

// Verify проверяет токен сессии
func (s *Service) Verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.sessionSecret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidSession
	}
	return nil
}
