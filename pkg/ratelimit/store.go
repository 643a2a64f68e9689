package ratelimit

import (
	"sync"
	"time"
)

// Store считает попытки по ключу в скользящем окне.
// Используется для ограничения попыток входа в админ-панель.
type Store struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	attempts  map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewStore создает Store с окном window и лимитом max попыток
func NewStore(window time.Duration, max int) *Store {
	return &Store{
		window:   window,
		max:      max,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow регистрирует попытку для ключа и сообщает, укладывается ли она в лимит
func (s *Store) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	if now.Sub(s.lastSweep) >= s.window {
		s.sweep(cutoff)
		s.lastSweep = now
	}

	kept := s.attempts[key][:0]
	for _, t := range s.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= s.max {
		s.attempts[key] = kept
		return false
	}

	s.attempts[key] = append(kept, now)
	return true
}

// sweep удаляет ключи без попыток в текущем окне, иначе карта росла бы
// бесконечно за счет клиентов, которые больше не возвращаются.
// Вызывается под мьютексом не чаще раза за окно.
func (s *Store) sweep(cutoff time.Time) {
	for key, times := range s.attempts {
		live := false
		for _, t := range times {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(s.attempts, key)
		}
	}
}

// Reset сбрасывает счетчик для ключа (после успешного входа)
func (s *Store) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, key)
}
