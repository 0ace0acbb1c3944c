// Package oauth implements the authorization-code login flows of the
// supported SNS providers.
package oauth

import (
	"context"
	"sort"

	"github.com/ag3-team/ag3-api/internal/model"
)

// Profile is what a provider tells us about the user who just logged in.
type Profile struct {
	SNSType  model.SNSType
	SNSID    string
	ImageURL string
}

type Provider interface {
	Name() model.SNSType
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the user's profile.
	Exchange(ctx context.Context, code string) (Profile, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[string(p.Name())] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
