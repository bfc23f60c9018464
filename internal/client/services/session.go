// Package services holds the console's application logic: the session and
// route guard, the in-memory collection store, the circulation rules that
// guard every mutating call, statistics and report export.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/libadmin/internal/common"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SessionService owns the logged-in state. It restores it from the local
// store on start, persists every change, and acts as the gateway's token
// source and 401 handler.
type SessionService struct {
	repo metadata.Repository
	auth client.AuthAPI
	log  logging.Logger

	mu       sync.RWMutex
	state    models.Session
	redirect bool
}

func NewSessionService(repo metadata.Repository, log logging.Logger) *SessionService {
	return &SessionService{repo: repo, log: log}
}

// Attach sets the API used by Authenticate. The gateway needs the session
// as its token source, so the two are wired after construction.
func (s *SessionService) Attach(auth client.AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Init restores the persisted session. A corrupt entry is dropped and the
// console starts logged out.
func (s *SessionService) Init(ctx context.Context) (models.Session, error) {
	raw, ok, err := s.repo.Get(ctx, common.SessionKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("restore session: %w", err)
	}

	var st models.Session
	if ok {
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			s.log.Warn(ctx, "dropping unreadable session", "error", err)
			if err := s.repo.Delete(ctx, common.SessionKey); err != nil {
				return models.Session{}, fmt.Errorf("drop session: %w", err)
			}
			st = models.Session{}
		}
	}
	if !st.LoggedIn {
		st = models.Session{}
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	return s.Current(), nil
}

// Begin records a successful login and persists it.
func (s *SessionService) Begin(ctx context.Context, username string, role models.Role, profile *models.Reader) error {
	st := models.Session{LoggedIn: true, Username: username, Role: role}
	if profile != nil {
		p := *profile
		p.Password = ""
		st.Reader = &p
	}

	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, common.SessionKey, string(b)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.state = st
	s.redirect = false
	s.mu.Unlock()

	s.log.Info(ctx, "session started", "username", username, "role", role)
	return nil
}

// Authenticate logs in against the server, stores the bearer token and
// begins the session. The role comes from the response, or failing that
// from the token's "role" claim.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (models.Session, error) {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return models.Session{}, errors.New("session: no auth api attached")
	}

	res, err := auth.Login(ctx, username, password)
	if errors.Is(err, client.ErrUnauthorized) {
		// The gateway's 401 handler already ran, but there was no session to
		// expire: drop the redirect it queued.
		s.mu.Lock()
		s.redirect = false
		s.mu.Unlock()
		s.log.Info(ctx, "login rejected", "username", username)
		return models.Session{}, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return models.Session{}, fmt.Errorf("login: %w", client.ErrEmptyResponse)
	}

	role, ok := models.ParseRole(res.Role)
	if !ok {
		role, ok = roleFromToken(res.Token)
	}
	if !ok {
		return models.Session{}, ErrUnknownRole
	}

	var profile *models.Reader
	if role == models.RoleReader && len(res.User) > 0 && string(res.User) != "null" {
		var r models.Reader
		if err := json.Unmarshal(res.User, &r); err != nil {
			s.log.Warn(ctx, "reader profile not decodable", "error", err)
		} else {
			profile = &r
		}
	}

	if err := s.repo.Set(ctx, common.TokenKey, res.Token); err != nil {
		return models.Session{}, fmt.Errorf("persist token: %w", err)
	}
	if err := s.Begin(ctx, username, role, profile); err != nil {
		return models.Session{}, err
	}
	return s.Current(), nil
}

// End logs out: memory, persisted session and token are all cleared.
func (s *SessionService) End(ctx context.Context) error {
	s.mu.Lock()
	user := s.state.Username
	s.state = models.Session{}
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, common.SessionKey, common.TokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info(ctx, "session ended", "username", user)
	return nil
}

// Expire is the gateway's 401 handler: it ends the session and asks the
// console to go back to the login screen.
func (s *SessionService) Expire(ctx context.Context) {
	if err := s.End(ctx); err != nil {
		s.log.Error(ctx, "clear expired session", "error", err)
	}
	s.mu.Lock()
	s.redirect = true
	s.mu.Unlock()
	s.log.Warn(ctx, "session expired, login required")
}

// TakeRedirect reports (once) whether a forced return to login is pending.
func (s *SessionService) TakeRedirect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.redirect
	s.redirect = false
	return r
}

// Current returns a copy of the session state.
func (s *SessionService) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Reader != nil {
		r := *st.Reader
		st.Reader = &r
	}
	return st
}

func (s *SessionService) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LoggedIn
}

// Resolve is the route guard. Readers only reach their allow-list, admins
// only admin pages; anything else lands on the dashboard.
func (s *SessionService) Resolve(p models.Page) models.Page {
	st := s.Current()
	if !st.LoggedIn {
		return models.PageDashboard
	}
	if models.Allowed(st.Role, p) {
		return p
	}
	return models.PageDashboard
}

// Token implements client.TokenSource by reading the persisted token.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	tok, _, err := s.repo.Get(ctx, common.TokenKey)
	return tok, err
}

// Claims decodes the bearer token without verifying it. The console only
// displays them; the server is the one that checks signatures.
func (s *SessionService) Claims(ctx context.Context) (jwt.MapClaims, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, ErrNotLoggedIn
	}
	return parseClaims(tok)
}

// TokenExpiry returns the exp claim, zero when absent or unreadable.
func (s *SessionService) TokenExpiry(ctx context.Context) time.Time {
	claims, err := s.Claims(ctx)
	if err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func parseClaims(tok string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

func roleFromToken(tok string) (models.Role, bool) {
	claims, err := parseClaims(tok)
	if err != nil {
		return "", false
	}
	v, _ := claims["role"].(string)
	return models.ParseRole(v)
}
