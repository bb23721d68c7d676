package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	// ErrRateLimited is returned when the provider throttles sign-in.
	ErrRateLimited = errors.New("oauth: provider rate limited")
	// ErrEmailNotVerified is returned for accounts without a confirmed email.
	ErrEmailNotVerified = errors.New("oauth: email not verified")
)

// Identity is what the provider proves about the signed-in person.
type Identity struct {
	Provider      string
	ProviderID    string
	Email         string
	VerifiedEmail bool
	Name          string
	Picture       string
}

// Provider is an external identity provider.
type Provider interface {
	Name() string
	AuthURL(state string) string
	Authenticate(ctx context.Context, code string) (*Identity, error)
}

// GoogleProvider handles Google OAuth2 authentication
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *GoogleProvider) Name() string { return "google" }

// AuthURL returns the OAuth authorization URL
func (g *GoogleProvider) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Authenticate exchanges the authorization code and loads the profile
func (g *GoogleProvider) Authenticate(ctx context.Context, code string) (*Identity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode == http.StatusTooManyRequests {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	info, err := g.userInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	return &Identity{
		Provider:      g.Name(),
		ProviderID:    info.ID,
		Email:         info.Email,
		VerifiedEmail: info.VerifiedEmail,
		Name:          name,
		Picture:       info.Picture,
	}, nil
}

func (g *GoogleProvider) userInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := g.config.Client(ctx, token)

	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to get user info: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}
	return &info, nil
}
