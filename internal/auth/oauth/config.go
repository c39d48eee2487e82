// Package oauth runs the upstream provider login flow and the completion
// step that turns a provider identity into local access and refresh tokens.
package oauth

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// PostLoginRedirectPath is where the client lands after a completed login,
// with the access token attached as a query parameter.
const PostLoginRedirectPath = "/articles"

// Config describes the OAuth login configuration.
type Config struct {
	Providers map[string]ProviderConfig
}

// ProviderConfig describes an external OAuth provider.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}

// oauthEnv holds raw env values for OAuth configuration.
type oauthEnv struct {
	GoogleClientID     string   `env:"INKPRESS_OAUTH_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"INKPRESS_OAUTH_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string   `env:"INKPRESS_OAUTH_GOOGLE_REDIRECT_URI"`
	GoogleScopes       []string `env:"INKPRESS_OAUTH_GOOGLE_SCOPES" envSeparator:","`
	GitHubClientID     string   `env:"INKPRESS_OAUTH_GITHUB_CLIENT_ID"`
	GitHubClientSecret string   `env:"INKPRESS_OAUTH_GITHUB_CLIENT_SECRET"`
	GitHubRedirectURI  string   `env:"INKPRESS_OAUTH_GITHUB_REDIRECT_URI"`
	GitHubScopes       []string `env:"INKPRESS_OAUTH_GITHUB_SCOPES" envSeparator:","`
}

// LoadConfigFromEnv loads OAuth provider configuration from environment
// variables. Providers missing any required value are left unconfigured.
func LoadConfigFromEnv() Config {
	var raw oauthEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}
	}
	return Config{Providers: buildProviders(raw)}
}

// trimCSV removes empty entries from a string slice.
func trimCSV(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func buildProviders(raw oauthEnv) map[string]ProviderConfig {
	providers := make(map[string]ProviderConfig)
	if raw.GoogleClientID != "" && raw.GoogleClientSecret != "" && raw.GoogleRedirectURI != "" {
		scopes := trimCSV(raw.GoogleScopes)
		if len(scopes) == 0 {
			scopes = []string{"openid", "email", "profile"}
		}
		providers["google"] = ProviderConfig{
			Name:         "Google",
			ClientID:     raw.GoogleClientID,
			ClientSecret: raw.GoogleClientSecret,
			RedirectURI:  raw.GoogleRedirectURI,
			AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			UserInfoURL:  "https://openidconnect.googleapis.com/v1/userinfo",
			Scopes:       scopes,
		}
	}
	if raw.GitHubClientID != "" && raw.GitHubClientSecret != "" && raw.GitHubRedirectURI != "" {
		scopes := trimCSV(raw.GitHubScopes)
		if len(scopes) == 0 {
			scopes = []string{"read:user", "user:email"}
		}
		providers["github"] = ProviderConfig{
			Name:         "GitHub",
			ClientID:     raw.GitHubClientID,
			ClientSecret: raw.GitHubClientSecret,
			RedirectURI:  raw.GitHubRedirectURI,
			AuthURL:      "https://github.com/login/oauth/authorize",
			TokenURL:     "https://github.com/login/oauth/access_token",
			UserInfoURL:  "https://api.github.com/user",
			Scopes:       scopes,
		}
	}
	if len(providers) == 0 {
		return nil
	}
	return providers
}
