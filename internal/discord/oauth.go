// Package discord wraps the Discord OAuth2 login flow and the REST calls the
// API makes on behalf of a signed-in user.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"

	"guildapply/internal/models"
	"guildapply/internal/observability"
)

const (
	authorizeURL  = "https://discord.com/oauth2/authorize"
	avatarCDN     = "https://cdn.discordapp.com/avatars/"
	scopeIdentify = "identify"
)

// ErrExchangeFailed is returned when the authorization code could not be
// turned into an identity, either at the token endpoint or at users/@me.
var ErrExchangeFailed = errors.New("discord oauth exchange failed")

// Endpoint is the Discord OAuth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:   authorizeURL,
	TokenURL:  discordgo.EndpointOAuth2 + "token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// OAuthClient drives the authorization code flow against Discord.
type OAuthClient struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuthClient builds a client for the given application credentials.
// A nil httpClient falls back to one with a 10 second timeout.
func NewOAuthClient(clientID, clientSecret, redirectURI string, httpClient *http.Client) *OAuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OAuthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{scopeIdentify},
			Endpoint:     Endpoint,
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the provider URL the browser is redirected to.
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the caller's Discord identity.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*models.Identity, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrExchangeFailed)
	}

	ctx, span := observability.StartDiscord(ctx, "oauth2/token")
	defer span.End()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.config.Exchange(ctx, code)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("%w: token: %v", ErrExchangeFailed, err)
	}

	user, err := c.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("%w: users/@me: %v", ErrExchangeFailed, err)
	}

	return &models.Identity{
		ExternalID:  user.ID,
		DisplayName: user.Username,
		AvatarURL:   AvatarURL(user.ID, user.Avatar),
	}, nil
}

func (c *OAuthClient) fetchUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	s, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, err
	}
	s.Client = c.httpClient
	s.MaxRestRetries = 1
	return s.User("@me", discordgo.WithContext(ctx))
}

// AvatarURL builds the CDN URL for an avatar hash, nil when the user has none.
func AvatarURL(userID, hash string) *string {
	if hash == "" {
		return nil
	}
	u := avatarCDN + userID + "/" + hash + ".png"
	return &u
}
