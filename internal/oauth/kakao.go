package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/ag3-team/ag3-api/internal/model"
)

const kakaoProfileURL = "https://kapi.kakao.com/v2/user/me"

var KakaoEndpoint = oauth2.Endpoint{
	AuthURL:   "https://kauth.kakao.com/oauth/authorize",
	TokenURL:  "https://kauth.kakao.com/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type kakaoProfile struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Profile struct {
			ThumbnailImageURL string `json:"thumbnail_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

type Kakao struct {
	cfg        *oauth2.Config
	profileURL string
	opts       options
}

func NewKakao(clientID, clientSecret, redirectURL string, opts ...Option) *Kakao {
	o := buildOptions(opts)
	endpoint := KakaoEndpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}
	profileURL := kakaoProfileURL
	if o.profileURL != "" {
		profileURL = o.profileURL
	}
	return &Kakao{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
		},
		profileURL: profileURL,
		opts:       o,
	}
}

func (k *Kakao) Name() model.SNSType { return model.SNSTypeKakao }

func (k *Kakao) AuthCodeURL(state string) string {
	return k.cfg.AuthCodeURL(state)
}

func (k *Kakao) Exchange(ctx context.Context, code string) (Profile, error) {
	ctx, cancel := k.opts.bound(ctx)
	defer cancel()

	token, err := k.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("kakao: token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.profileURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("kakao: build profile request: %w", err)
	}
	resp, err := k.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("kakao: fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("kakao: profile endpoint returned status %d", resp.StatusCode)
	}

	var me kakaoProfile
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return Profile{}, fmt.Errorf("kakao: decode profile: %w", err)
	}
	if me.ID == 0 {
		return Profile{}, fmt.Errorf("kakao: profile has no id")
	}

	return Profile{
		SNSType:  model.SNSTypeKakao,
		SNSID:    strconv.FormatInt(me.ID, 10),
		ImageURL: me.KakaoAccount.Profile.ThumbnailImageURL,
	}, nil
}

var _ Provider = (*Kakao)(nil)
