package adminauth

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверном пароле
	ErrInvalidCredentials = errors.New("adminauth: invalid credentials")

	// ErrTooManyAttempts возвращается при превышении лимита попыток входа
	ErrTooManyAttempts = errors.New("adminauth: too many login attempts")

	// ErrInvalidSession возвращается при недействительном или истекшем токене сессии
	ErrInvalidSession = errors.New("adminauth: invalid session")
)
