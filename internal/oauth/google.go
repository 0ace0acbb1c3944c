package oauth

import (
	"context"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ag3-team/ag3-api/internal/model"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

type googleClaims struct {
	jwt.RegisteredClaims
	Picture string `json:"picture"`
}

// Google signs users in with OpenID Connect. The profile comes from the
// id_token in the token response, verified against Google's published keys.
type Google struct {
	cfg  *oauth2.Config
	jwks *JWKSClient
	opts options
}

func NewGoogle(clientID, clientSecret, redirectURL string, opts ...Option) *Google {
	o := buildOptions(opts)
	endpoint := google.Endpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}
	jwksURL := googleJWKSURL
	if o.jwksURL != "" {
		jwksURL = o.jwksURL
	}
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile"},
		},
		jwks: NewJWKSClient(jwksURL, o.httpClient),
		opts: o,
	}
}

func (g *Google) Name() model.SNSType { return model.SNSTypeGoogle }

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *Google) Exchange(ctx context.Context, code string) (Profile, error) {
	ctx, cancel := g.opts.bound(ctx)
	defer cancel()

	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("google: token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return Profile{}, fmt.Errorf("google: token response has no id_token")
	}

	claims, err := g.verifyIDToken(ctx, rawIDToken)
	if err != nil {
		return Profile{}, fmt.Errorf("google: %w", err)
	}

	return Profile{
		SNSType:  model.SNSTypeGoogle,
		SNSID:    claims.Subject,
		ImageURL: claims.Picture,
	}, nil
}

func (g *Google) verifyIDToken(ctx context.Context, raw string) (googleClaims, error) {
	var claims googleClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}
		return g.jwks.GetKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(g.cfg.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return googleClaims{}, fmt.Errorf("invalid id_token: %w", err)
	}
	if !slices.Contains(googleIssuers, claims.Issuer) {
		return googleClaims{}, fmt.Errorf("invalid id_token issuer %q", claims.Issuer)
	}
	if claims.Subject == "" {
		return googleClaims{}, fmt.Errorf("id_token has no sub claim")
	}
	return claims, nil
}

var _ Provider = (*Google)(nil)
