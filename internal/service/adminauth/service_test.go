package adminauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allowed bool
	resets  int
}

func (f *fakeLimiter) Allow(string) bool { return f.allowed }
func (f *fakeLimiter) Reset(string)      { f.resets++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(limiter RateLimiter) *Service {
	return NewService("hunter2", "test-secret", time.Hour, limiter, nopLogger{})
}

func TestLogin_Success(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	svc := newTestService(limiter)

	token, err := svc.Login("1.2.3.4", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, limiter.resets)

	assert.NoError(t, svc.Verify(token))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(&fakeLimiter{allowed: true})

	_, err := svc.Login("1.2.3.4", "guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RateLimited(t *testing.T) {
	svc := newTestService(&fakeLimiter{allowed: false})

	_, err := svc.Login("1.2.3.4", "hunter2")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerify_GarbageToken(t *testing.T) {
	svc := newTestService(&fakeLimiter{allowed: true})

	assert.ErrorIs(t, svc.Verify("not-a-token"), ErrInvalidSession)
}

func TestVerify_ExpiredSession(t *testing.T) {
	svc := newTestService(&fakeLimiter{allowed: true})

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.Login("1.2.3.4", "hunter2")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	assert.ErrorIs(t, svc.Verify(token), ErrInvalidSession)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newTestService(&fakeLimiter{allowed: true})
	other := NewService("hunter2", "other-secret", time.Hour, &fakeLimiter{allowed: true}, nopLogger{})

	token, err := other.Login("1.2.3.4", "hunter2")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(token), ErrInvalidSession)
}
