package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const (
	defaultClientID     = "1039390104988-vopbe1d286ghokldej9fb0o9k3uj0ui3.apps.googleusercontent.com"
	defaultClientSecret = ""

	authURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL    = "https://oauth2.googleapis.com/token"
	userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

	redirectURL  = "http://localhost:49712/oauth-callback"
	callbackAddr = ":49712"
)

var scopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// authFlow holds the PKCE material for one sign-in attempt.
type authFlow struct {
	Verifier string
	State    string
	AuthURL  string
}

// startAuth generates the PKCE verifier/challenge pair and the consent URL.
func (m *Manager) startAuth() (*authFlow, error) {
	verifierBytes := make([]byte, 32)
	if _, err := rand.Read(verifierBytes); err != nil {
		return nil, err
	}
	verifier := base64.RawURLEncoding.EncodeToString(verifierBytes)

	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, err
	}
	state := base64.RawURLEncoding.EncodeToString(stateBytes)

	u, err := url.Parse(authURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client_id", m.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", redirectURL)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("state", state)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	u.RawQuery = q.Encode()

	return &authFlow{
		Verifier: verifier,
		State:    state,
		AuthURL:  u.String(),
	}, nil
}

// waitForCallback serves the localhost redirect target until Google delivers
// the authorization code, then shuts the server down.
func (m *Manager) waitForCallback(ctx context.Context, expectedState string) (string, error) {
	type result struct {
		code string
		err  error
	}
	resultCh := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth-callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "Sign-in failed. You can close this tab.", http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("authorization denied: %s", errMsg)}
			return
		}
		if q.Get("state") != expectedState {
			http.Error(w, "State mismatch. You can close this tab.", http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("state mismatch in callback")}
			return
		}
		fmt.Fprintln(w, "Signed in to AutoAccel. You can close this tab.")
		resultCh <- result{code: q.Get("code")}
	})

	srv := &http.Server{Addr: callbackAddr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case res := <-resultCh:
		return res.code, res.err
	case err := <-errCh:
		return "", fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// exchangeCode trades the authorization code for tokens.
func (m *Manager) exchangeCode(ctx context.Context, code, verifier string) (*Token, error) {
	data := url.Values{}
	data.Set("client_id", m.cfg.ClientID)
	if m.cfg.ClientSecret != "" {
		data.Set("client_secret", m.cfg.ClientSecret)
	}
	data.Set("code", code)
	data.Set("code_verifier", verifier)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", redirectURL)

	return m.tokenRequest(ctx, data)
}

// refresh renews the access token with the stored refresh token.
func (m *Manager) refresh(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	if token == nil || token.RefreshToken == "" {
		return fmt.Errorf("no refresh token available")
	}

	data := url.Values{}
	data.Set("client_id", m.cfg.ClientID)
	if m.cfg.ClientSecret != "" {
		data.Set("client_secret", m.cfg.ClientSecret)
	}
	data.Set("refresh_token", token.RefreshToken)
	data.Set("grant_type", "refresh_token")

	fresh, err := m.tokenRequest(ctx, data)
	if err != nil {
		return err
	}
	// Google omits the refresh token and profile on renewal; carry them over.
	fresh.RefreshToken = token.RefreshToken
	fresh.Email = token.Email
	fresh.Name = token.Name
	fresh.Picture = token.Picture

	m.mu.Lock()
	m.token = fresh
	m.mu.Unlock()
	return m.saveToken()
}

func (m *Manager) tokenRequest(ctx context.Context, data url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, err
	}
	token.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return &token, nil
}

// fetchProfile fills the token's profile fields from the userinfo endpoint.
func (m *Manager) fetchProfile(ctx context.Context, token *Token) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return err
	}
	token.Name = info.Name
	token.Picture = info.Picture
	token.Email = info.Email
	return nil
}

// openBrowser opens the URL in the default system browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
