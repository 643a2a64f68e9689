package adminauth

// RateLimiter интерфейс ограничителя попыток входа
type RateLimiter interface {
	Allow(key string) bool
	Reset(key string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
