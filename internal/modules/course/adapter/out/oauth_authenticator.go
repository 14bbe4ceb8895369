package out

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"coursemenu/internal/modules/course/domain"
	courseout "coursemenu/internal/modules/course/port/out"
	apperrors "coursemenu/internal/platform/errors"
	"coursemenu/internal/platform/logger"
)

type OAuthConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// OAuthAuthenticator exchanges client credentials for a bearer token at
// {BaseURL}/oauth2/token/ using HTTP basic client authentication.
type OAuthAuthenticator struct {
	log *logger.Logger
	cfg clientcredentials.Config
}

func NewOAuthAuthenticator(log *logger.Logger, cfg OAuthConfig) courseout.Authenticator {
	if log == nil {
		log = logger.NewNop()
	}
	return &OAuthAuthenticator{
		log: log.With("client", "OAuthAuthenticator"),
		cfg: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     strings.TrimRight(cfg.BaseURL, "/") + "/oauth2/token/",
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
	}
}

func (a *OAuthAuthenticator) Authenticate(ctx context.Context) (domain.Credential, error) {
	if strings.TrimSpace(a.cfg.ClientID) == "" || strings.TrimSpace(a.cfg.ClientSecret) == "" {
		return domain.Credential{}, fmt.Errorf("%w: client id and secret are required", apperrors.ErrAuthentication)
	}
	token, err := a.cfg.Token(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %w", apperrors.ErrAuthentication, err)
	}
	if token.AccessToken == "" {
		return domain.Credential{}, fmt.Errorf("%w: empty access token", apperrors.ErrAuthentication)
	}
	a.log.Debug("credential issued", "expires", token.Expiry)
	return domain.Credential{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.Expiry,
	}, nil
}
