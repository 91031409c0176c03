package admin

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Sessions — серверные сессии панели: случайный токен в куке,
// данные в памяти процесса. TTL скользящий не делаем, истёкшие
// записи вычищаются лениво при обращении.
type Sessions struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]session
}

type session struct {
	username string
	expires  time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, m: make(map[string]session)}
}

func (s *Sessions) Create(username string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = session{username: username, expires: time.Now().Add(s.ttl)}
	return token, nil
}

func (s *Sessions) Get(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expires) {
		delete(s.m, token)
		return "", false
	}
	return sess.username, true
}

func (s *Sessions) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
}
