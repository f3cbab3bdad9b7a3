package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config holds the Google OAuth2 client settings
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Profile is the identity projection returned by the provider. Subject is
// the provider's opaque user id and is the only field used for lookup.
type Profile struct {
	Subject string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// GoogleProvider drives the authorization-code login flow against Google
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a provider for the login flow
func NewGoogleProvider(cfg *Config) (*GoogleProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("oauth2 config is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client_id and client_secret are required")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("redirect_url is required")
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"profile", "email"},
			RedirectURL:  cfg.RedirectURL,
		},
	}, nil
}

// AuthCodeURL returns the consent page URL carrying the given state
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth2: code exchange failed: %w", err)
	}
	return token, nil
}

// FetchProfile retrieves the authenticated user's profile
func (p *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := p.config.Client(ctx, token)

	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("oauth2: userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth2: userinfo request returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("oauth2: failed to decode userinfo: %w", err)
	}

	if profile.Subject == "" {
		return nil, fmt.Errorf("oauth2: userinfo response missing subject id")
	}

	return &profile, nil
}
