package app

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/classmood/backend/internal/attendance"
	"github.com/classmood/backend/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.Store
	Auth     *Auth
	Clock    attendance.Clock
	Notifier *attendance.Notifier

	mu  sync.Mutex
	day *attendance.Session
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    store,
		Auth:     auth,
		Clock:    attendance.SystemClock(),
		Notifier: &attendance.Notifier{},
	}, nil
}

// DaySession hands out the capture session for the clock's current day,
// opening a fresh one at the day boundary. The previous day's session
// is simply dropped; its only durable artifact is whatever was
// committed to the store.
func (s *Service) DaySession() *attendance.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day == nil || s.day.Date() != s.Clock.Today() {
		s.day = attendance.NewSession(s.Store, s.Clock)
		if s.Config.Attendance.StrictDefault {
			s.day.SetStrict(true)
		}
	}
	return s.day
}

// ValidateRequest checks the bearer session token when auth is enabled.
func (s *Service) ValidateRequest(r *http.Request) error {
	if !s.Auth.Enabled() {
		return nil
	}

	authHeader := r.Header.Get(s.Auth.TokenHeader())
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fmt.Errorf("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	_, err := s.Auth.ValidateSession(r.Context(), token)
	return err
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
