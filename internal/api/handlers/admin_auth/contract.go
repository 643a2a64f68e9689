package admin_auth

import "time"

type AuthService interface {
	Login(clientKey, password string) (string, error)
	Verify(token string) error
	SessionTTL() time.Duration
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
