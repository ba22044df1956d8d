// Package auth handles Google sign-in for AutoAccel. It runs the OAuth
// authorization-code flow with PKCE through the system browser, persists the
// resulting tokens as a JSON file, and notifies subscribers whenever the
// signed-in identity changes. Token storage, refresh and validation live
// here; the rest of the application only observes the identity.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Identity is the signed-in user as the application sees it.
type Identity struct {
	DisplayName string
	PhotoURL    string
	Email       string
}

// Token holds the OAuth token details plus the profile fields captured at
// sign-in time.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	Expiry       time.Time `json:"expiry"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	Picture      string    `json:"picture,omitempty"`
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	Logger       *zap.Logger
	OpenURL      func(url string) error // opens the sign-in page; defaults to the system browser
}

// DefaultManagerConfig resolves the token file under the user's home
// directory and reads client credentials from the environment when set.
func DefaultManagerConfig() (ManagerConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return ManagerConfig{}, err
	}
	cfg := ManagerConfig{
		ClientID:     defaultClientID,
		ClientSecret: defaultClientSecret,
		TokenFile:    filepath.Join(home, ".autoaccel", "google_tokens.json"),
	}
	if v := os.Getenv("AUTOACCEL_GOOGLE_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("AUTOACCEL_GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	return cfg, nil
}

// Manager owns the token lifecycle and the auth-state subscription list.
type Manager struct {
	cfg    ManagerConfig
	logger *zap.Logger

	mu    sync.Mutex
	token *Token
	subs  []func(*Identity)
}

// NewManager creates a Manager and loads any previously persisted token.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.OpenURL == nil {
		cfg.OpenURL = openBrowser
	}
	m := &Manager{cfg: cfg, logger: cfg.Logger}
	_ = m.loadToken()
	return m
}

// Current returns the signed-in identity, or nil when signed out.
func (m *Manager) Current() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return identityOf(m.token)
}

// Subscribe registers an auth-state-change callback and immediately delivers
// the current state to it. That first delivery is the signal the session gate
// blocks on before doing any routing.
func (m *Manager) Subscribe(fn func(*Identity)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	current := identityOf(m.token)
	m.mu.Unlock()
	m.deliver(fn, current)
}

// SignIn runs the interactive browser flow, persists the token, and notifies
// subscribers. Blocks until the callback arrives or ctx is done.
func (m *Manager) SignIn(ctx context.Context) error {
	flow, err := m.startAuth()
	if err != nil {
		return fmt.Errorf("start auth flow: %w", err)
	}

	if err := m.cfg.OpenURL(flow.AuthURL); err != nil {
		// The URL is still usable by hand; log and keep waiting.
		m.logger.Warn("could not open browser", zap.Error(err))
	}

	code, err := m.waitForCallback(ctx, flow.State)
	if err != nil {
		return fmt.Errorf("wait for sign-in callback: %w", err)
	}

	token, err := m.exchangeCode(ctx, code, flow.Verifier)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	if err := m.fetchProfile(ctx, token); err != nil {
		m.logger.Warn("could not fetch user profile", zap.Error(err))
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	if err := m.saveToken(); err != nil {
		m.logger.Warn("could not persist token", zap.Error(err))
	}

	m.logger.Info("signed in", zap.String("email", token.Email))
	m.notify()
	return nil
}

// SignOut forgets the persisted token and notifies subscribers.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()

	if err := os.Remove(m.cfg.TokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	m.logger.Info("signed out")
	m.notify()
	return nil
}

// AccessToken returns a valid access token, refreshing first when expired.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == nil {
		return "", fmt.Errorf("not signed in")
	}
	if time.Now().Before(token.Expiry.Add(-time.Minute)) {
		return token.AccessToken, nil
	}
	if err := m.refresh(ctx); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token.AccessToken, nil
}

func (m *Manager) notify() {
	m.mu.Lock()
	subs := make([]func(*Identity), len(m.subs))
	copy(subs, m.subs)
	current := identityOf(m.token)
	m.mu.Unlock()

	for _, fn := range subs {
		m.deliver(fn, current)
	}
}

// deliver calls one subscriber. A failing callback has no recovery path; it
// is logged only.
func (m *Manager) deliver(fn func(*Identity), id *Identity) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("auth subscriber panicked", zap.Any("panic", r))
		}
	}()
	fn(id)
}

func (m *Manager) loadToken() error {
	data, err := os.ReadFile(m.cfg.TokenFile)
	if err != nil {
		return err
	}
	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	m.mu.Lock()
	m.token = &token
	m.mu.Unlock()
	return nil
}

func (m *Manager) saveToken() error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	if token == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(m.cfg.TokenFile), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.cfg.TokenFile, data, 0600)
}

func identityOf(t *Token) *Identity {
	if t == nil {
		return nil
	}
	return &Identity{
		DisplayName: t.Name,
		PhotoURL:    t.Picture,
		Email:       t.Email,
	}
}
