package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// OAuthIdentity is what a provider asserts about the signing-in user,
// plus the opaque token material we persist on the linked account.
type OAuthIdentity struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
	AccessToken       string
	TokenType         string
	Scope             string
	IDToken           string
	ExpiresAt         *int64
}

type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	// Exchange swaps the authorization code for tokens and fetches the
	// provider's profile for the user.
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}

var ErrUnknownProvider = errors.New("unknown oauth provider")

type OAuthProviderSet map[string]OAuthProvider

func (s OAuthProviderSet) Get(name string) (OAuthProvider, error) {
	p, ok := s[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     endpoints.Google,
	}}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*OAuthIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	var profile struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, p.config.Client(ctx, token), "https://www.googleapis.com/oauth2/v2/userinfo", &profile); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("google profile has no email")
	}

	identity := identityFromToken(p.Name(), token)
	identity.ProviderAccountID = profile.ID
	identity.Email = profile.Email
	identity.Name = profile.Name
	identity.Image = profile.Picture
	if idToken, ok := token.Extra("id_token").(string); ok {
		identity.IDToken = idToken
	}
	return identity, nil
}

type GithubProvider struct {
	config *oauth2.Config
}

func NewGithubProvider(clientID, clientSecret, redirectURL string) *GithubProvider {
	return &GithubProvider{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     endpoints.GitHub,
	}}
}

func (p *GithubProvider) Name() string { return "github" }

func (p *GithubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GithubProvider) Exchange(ctx context.Context, code string) (*OAuthIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github code exchange: %w", err)
	}
	client := p.config.Client(ctx, token)

	var profile struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := fetchJSON(ctx, client, "https://api.github.com/user", &profile); err != nil {
		return nil, fmt.Errorf("github user: %w", err)
	}

	email := profile.Email
	if email == "" {
		// The profile email is often private; the emails endpoint lists the
		// verified primary address.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := fetchJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, fmt.Errorf("github emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, errors.New("github profile has no verified email")
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	identity := identityFromToken(p.Name(), token)
	identity.ProviderAccountID = strconv.FormatInt(profile.ID, 10)
	identity.Email = email
	identity.Name = name
	identity.Image = profile.AvatarURL
	return identity, nil
}

func identityFromToken(provider string, token *oauth2.Token) *OAuthIdentity {
	identity := &OAuthIdentity{
		Provider:    provider,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.Unix()
		identity.ExpiresAt = &expiresAt
	}
	if scope, ok := token.Extra("scope").(string); ok {
		identity.Scope = scope
	}
	return identity
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
