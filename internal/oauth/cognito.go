package oauth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ag3-team/ag3-api/internal/cognito"
	"github.com/ag3-team/ag3-api/internal/model"
)

// Cognito signs users in through a Cognito hosted-UI domain and reads the
// profile with the user's access token.
type Cognito struct {
	cfg   *oauth2.Config
	users cognito.Client
	opts  options
}

// CognitoEndpoint returns the hosted-UI endpoints of domain, which may be
// given with or without a scheme.
func CognitoEndpoint(domain string) oauth2.Endpoint {
	base := strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return oauth2.Endpoint{
		AuthURL:   base + "/oauth2/authorize",
		TokenURL:  base + "/oauth2/token",
		AuthStyle: oauth2.AuthStyleInHeader,
	}
}

func NewCognito(domain, clientID, clientSecret, redirectURL string, users cognito.Client, opts ...Option) *Cognito {
	o := buildOptions(opts)
	endpoint := CognitoEndpoint(domain)
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}
	return &Cognito{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			// GetUser requires the admin scope on the access token.
			Scopes: []string{"openid", "profile", "aws.cognito.signin.user.admin"},
		},
		users: users,
		opts:  o,
	}
}

func (c *Cognito) Name() model.SNSType { return model.SNSTypeCognito }

func (c *Cognito) AuthCodeURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

func (c *Cognito) Exchange(ctx context.Context, code string) (Profile, error) {
	ctx, cancel := c.opts.bound(ctx)
	defer cancel()

	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("cognito: token exchange: %w", err)
	}

	info, err := c.users.GetUser(ctx, token.AccessToken)
	if err != nil {
		return Profile{}, fmt.Errorf("cognito: get user: %w", err)
	}

	return Profile{
		SNSType:  model.SNSTypeCognito,
		SNSID:    info.Sub,
		ImageURL: info.Picture,
	}, nil
}

var _ Provider = (*Cognito)(nil)
