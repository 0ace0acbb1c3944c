package handler

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/oauth"
	"github.com/ag3-team/ag3-api/internal/service"
	"github.com/ag3-team/ag3-api/internal/session"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

type AuthConfig struct {
	CookieName   string
	CookieDomain string
	CookieSecure bool
	// ClientURL is where the browser lands after a successful login.
	ClientURL string
}

// AuthHandler runs the SNS login redirects and issues session cookies.
type AuthHandler struct {
	providers *oauth.Registry
	identity  *service.IdentityService
	cfg       AuthConfig
}

func NewAuthHandler(providers *oauth.Registry, identity *service.IdentityService, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{providers: providers, identity: identity, cfg: cfg}
}

type registerRequest struct {
	SNSType  string `json:"snsType"`
	SNSID    string `json:"snsId"`
	ImageURL string `json:"imageURL"`
}

func (h *AuthHandler) provider(r *http.Request) (oauth.Provider, error) {
	name := mux.Vars(r)["provider"]
	p, ok := h.providers.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", service.ErrUnsupportedProvider, name)
	}
	return p, nil
}

// Login redirects the browser to the provider's consent page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	p, err := h.provider(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, h.stateCookie(state, int(stateTTL.Seconds())))
	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	p, err := h.provider(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	q := r.URL.Query()
	c, err := r.Cookie(stateCookieName)
	if err != nil || q.Get("state") == "" ||
		subtle.ConstantTimeCompare([]byte(c.Value), []byte(q.Get("state"))) != 1 {
		WriteError(w, http.StatusBadRequest, "INVALID_STATE", "login state mismatch")
		return
	}
	http.SetCookie(w, h.stateCookie("", -1))

	if reason := q.Get("error"); reason != "" {
		writeServiceError(w, r, fmt.Errorf("%w: %s denied login: %s", service.ErrUpstreamAuth, p.Name(), reason))
		return
	}
	code := q.Get("code")
	if code == "" {
		writeServiceError(w, r, fmt.Errorf("%w: code is required", service.ErrValidation))
		return
	}

	profile, err := p.Exchange(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: %s: %w", service.ErrUpstreamAuth, p.Name(), err))
		return
	}

	result, err := h.identity.LoginOrRegister(r.Context(), service.LinkInput{
		SNSType:  profile.SNSType,
		SNSID:    profile.SNSID,
		ImageURL: profile.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user logged in",
		"user_id", result.User.ID,
		"sns_type", profile.SNSType,
		"new", result.IsNew,
	)
	http.SetCookie(w, h.sessionCookie(r, result.Credential))
	http.Redirect(w, r, h.cfg.ClientURL, http.StatusFound)
}

// Register logs in with raw SNS fields, creating the account when the
// identity is new.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.identity.LoginOrRegister(r.Context(), service.LinkInput{
		SNSType:  model.SNSType(req.SNSType),
		SNSID:    req.SNSID,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status, message := http.StatusOK, "logged in"
	if result.IsNew {
		status, message = http.StatusCreated, "user created"
	}
	http.SetCookie(w, h.sessionCookie(r, result.Credential))
	WriteData(w, status, message, LoginResponse{
		User:      newUserResponse(result.User),
		Token:     result.Credential.Token,
		ExpiresAt: result.Credential.ExpiresAt,
		IsNew:     result.IsNew,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	domain := session.CookieDomain(h.cfg.CookieDomain, r)
	http.SetCookie(w, session.ExpiredCookie(h.cfg.CookieName, domain, h.cfg.CookieSecure))
	WriteData(w, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) sessionCookie(r *http.Request, cred session.Credential) *http.Cookie {
	domain := session.CookieDomain(h.cfg.CookieDomain, r)
	return session.Cookie(h.cfg.CookieName, domain, cred, h.cfg.CookieSecure)
}

func (h *AuthHandler) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
