/*
 * n8n-nodes-imap - Copyright (C) 2023 the n8n-nodes-imap authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package config

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// OAuth2Config is the flag set of the oauthlogin command. Provider presets
// fill in the endpoint and scopes; "custom" takes them from flags.
type OAuth2Config struct {
	Provider     string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       cli.StringSlice

	Config oauth2.Config
}

func (cfg *OAuth2Config) Parameters() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "oauth2 provider (google, microsoft, custom)",
			EnvVars:     []string{"IMAPNODE_OAUTH2_PROVIDER"},
			Destination: &cfg.Provider,
			Value:       "google",
		},
		&cli.StringFlag{
			Name:        "client-id",
			Usage:       "oauth2 client id",
			EnvVars:     []string{"IMAPNODE_OAUTH2_CLIENT_ID"},
			Destination: &cfg.ClientID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "client-secret",
			Usage:       "oauth2 client secret",
			EnvVars:     []string{"IMAPNODE_OAUTH2_CLIENT_SECRET"},
			Destination: &cfg.ClientSecret,
		},
		&cli.StringFlag{
			Name:        "auth-url",
			Usage:       "authorization endpoint for the custom provider",
			EnvVars:     []string{"IMAPNODE_OAUTH2_AUTH_URL"},
			Destination: &cfg.AuthURL,
		},
		&cli.StringFlag{
			Name:        "token-url",
			Usage:       "token endpoint for the custom provider",
			EnvVars:     []string{"IMAPNODE_OAUTH2_TOKEN_URL"},
			Destination: &cfg.TokenURL,
		},
		&cli.StringSliceFlag{
			Name:        "scope",
			Usage:       "oauth2 scopes, overriding the provider preset",
			EnvVars:     []string{"IMAPNODE_OAUTH2_SCOPES"},
			Destination: &cfg.Scopes,
		},
	}
}

func (cfg *OAuth2Config) Resolve() error {
	switch strings.ToLower(cfg.Provider) {
	case "google":
		cfg.Config.Endpoint = endpoints.Google
		cfg.Config.Scopes = []string{"https://mail.google.com/"}
	case "microsoft":
		cfg.Config.Endpoint = endpoints.Microsoft
		cfg.Config.Scopes = []string{
			"https://outlook.office.com/IMAP.AccessAsUser.All",
			"offline_access",
		}
	case "custom":
		if cfg.AuthURL == "" || cfg.TokenURL == "" {
			return fmt.Errorf("custom provider needs \"auth-url\" and \"token-url\"")
		}
		cfg.Config.Endpoint = oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL}
	default:
		return fmt.Errorf("unknown oauth2 provider: %v", cfg.Provider)
	}

	if scopes := cfg.Scopes.Value(); len(scopes) > 0 {
		cfg.Config.Scopes = scopes
	}

	cfg.Config.ClientID = cfg.ClientID
	cfg.Config.ClientSecret = cfg.ClientSecret
	return nil
}
