package auth

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"sweetconsole/internal/shared/apiclient"
	"sweetconsole/internal/shared/storage"
)

var ErrNoToken = errors.New("auth response carried no token")

type (
	Service struct {
		client *apiclient.Client
		store  *storage.Store
		logger zerolog.Logger
	}
)

func NewService(client *apiclient.Client, store *storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Login exchanges credentials for a session and persists it. The error
// message is the server's when it sent one, else a fixed fallback.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	return s.authenticate(ctx, "/auth/login", email, password, "Login failed. Please try again.")
}

// Register creates an account; same contract as Login against the
// registration endpoint.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	return s.authenticate(ctx, "/auth/register", email, password, "Registration failed. Please try again.")
}

func (s *Service) authenticate(ctx context.Context, path, email, password, fallback string) (*Session, error) {
	raw, err := s.client.Post(ctx, path, Credentials{Email: email, Password: password})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, apiErr
		}
		return nil, errors.New(fallback)
	}

	var payload authPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.New(fallback)
	}
	sess, ok := payload.session()
	if !ok {
		return nil, ErrNoToken
	}

	if err := s.persist(sess); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("email", sess.User.Email).Msg("Session persisted")
	return sess, nil
}

func (s *Service) persist(sess *Session) error {
	if err := s.store.Set(storage.KeyAuthToken, sess.Token); err != nil {
		return err
	}
	user, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return s.store.Set(storage.KeyUser, string(user))
}

// Logout clears the persisted token and user. Idempotent.
func (s *Service) Logout() {
	if err := s.store.Delete(storage.KeyAuthToken); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear token")
	}
	if err := s.store.Delete(storage.KeyUser); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear user")
	}
}

// CurrentUser returns the persisted user, or nil when absent or
// unparseable. Every call re-reads durable storage.
func (s *Service) CurrentUser() *User {
	raw, ok := s.store.Get(storage.KeyUser)
	if !ok {
		return nil
	}
	user := new(User)
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil
	}
	return user
}

// IsAuthenticated reports whether a token is present in durable storage.
func (s *Service) IsAuthenticated() bool {
	_, ok := s.store.Token()
	return ok
}

// IsAdmin reports whether the persisted user carries the admin role.
func (s *Service) IsAdmin() bool {
	user := s.CurrentUser()
	return user != nil && user.Role == RoleAdmin
}
