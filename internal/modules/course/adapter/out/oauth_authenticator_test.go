package out_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	courseout "coursemenu/internal/modules/course/adapter/out"
	apperrors "coursemenu/internal/platform/errors"
)

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth2/token/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, `{"error":"invalid_client"}`)
			return
		}
		_ = r.ParseForm()
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"access_token":"abc","token_type":"Bearer","expires_in":36000}`)
	}))
}

func TestOAuthAuthenticatorIssuesCredential(t *testing.T) {
	t.Parallel()
	srv := tokenServer(t)
	defer srv.Close()

	auth := courseout.NewOAuthAuthenticator(nil, courseout.OAuthConfig{BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret"})
	got, err := auth.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", got.AccessToken)
	assert.True(t, got.Valid())
	assert.False(t, got.Expiry.IsZero())
}

func TestOAuthAuthenticatorBadCredentials(t *testing.T) {
	t.Parallel()
	srv := tokenServer(t)
	defer srv.Close()

	auth := courseout.NewOAuthAuthenticator(nil, courseout.OAuthConfig{BaseURL: srv.URL, ClientID: "id", ClientSecret: "wrong"})
	_, err := auth.Authenticate(context.Background())
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestOAuthAuthenticatorMissingSecret(t *testing.T) {
	t.Parallel()
	auth := courseout.NewOAuthAuthenticator(nil, courseout.OAuthConfig{BaseURL: "http://unused", ClientID: "id"})
	_, err := auth.Authenticate(context.Background())
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
}
