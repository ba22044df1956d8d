package auth

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(ManagerConfig{
		ClientID:  "test-client",
		TokenFile: filepath.Join(t.TempDir(), "tokens.json"),
	})
}

func TestSubscribeDeliversCurrentStateImmediately(t *testing.T) {
	m := testManager(t)

	var got []*Identity
	m.Subscribe(func(id *Identity) { got = append(got, id) })

	// Signed out: the first notification carries a nil identity.
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestSubscribeSeesPersistedToken(t *testing.T) {
	m := testManager(t)
	m.token = &Token{
		AccessToken: "at",
		Expiry:      time.Now().Add(time.Hour),
		Email:       "jo@example.com",
		Name:        "Jo",
		Picture:     "https://example.com/jo.png",
	}
	require.NoError(t, m.saveToken())

	// A fresh manager over the same file starts signed in.
	m2 := NewManager(ManagerConfig{ClientID: "test-client", TokenFile: m.cfg.TokenFile})
	id := m2.Current()
	require.NotNil(t, id)
	assert.Equal(t, "Jo", id.DisplayName)
	assert.Equal(t, "https://example.com/jo.png", id.PhotoURL)
	assert.Equal(t, "jo@example.com", id.Email)
}

func TestSignOutNotifiesNil(t *testing.T) {
	m := testManager(t)
	m.token = &Token{AccessToken: "at", Name: "Jo"}
	require.NoError(t, m.saveToken())

	var got []*Identity
	m.Subscribe(func(id *Identity) { got = append(got, id) })
	require.Len(t, got, 1)
	require.NotNil(t, got[0])

	require.NoError(t, m.SignOut())
	require.Len(t, got, 2)
	assert.Nil(t, got[1])
	assert.Nil(t, m.Current())

	// Signing out twice is harmless.
	require.NoError(t, m.SignOut())
}

func TestPanickingSubscriberIsContained(t *testing.T) {
	m := testManager(t)
	m.Subscribe(func(*Identity) { panic("boom") })

	var called bool
	m.Subscribe(func(*Identity) { called = true })
	assert.True(t, called)

	// notify after a state change still reaches the healthy subscriber.
	called = false
	require.NoError(t, m.SignOut())
	assert.True(t, called)
}

func TestStartAuthURL(t *testing.T) {
	m := testManager(t)
	flow, err := m.startAuth()
	require.NoError(t, err)
	require.NotEmpty(t, flow.Verifier)
	require.NotEmpty(t, flow.State)

	u, err := url.Parse(flow.AuthURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "test-client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, flow.State, q.Get("state"))
	assert.True(t, strings.Contains(q.Get("scope"), "userinfo.profile"))

	// Fresh PKCE material per attempt.
	flow2, err := m.startAuth()
	require.NoError(t, err)
	assert.NotEqual(t, flow.Verifier, flow2.Verifier)
	assert.NotEqual(t, flow.State, flow2.State)
}

func TestAccessTokenWithoutSignIn(t *testing.T) {
	m := testManager(t)
	_, err := m.AccessToken(t.Context())
	assert.ErrorContains(t, err, "not signed in")
}
