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

package node

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/emersion/go-sasl"
	"golang.org/x/oauth2"
)

const (
	AuthStoredCredentials = "storedCredentials"
	AuthParameters        = "parameters"
	AuthItemField         = "itemField"

	AuthMethodLogin       = "login"
	AuthMethodPlain       = "plain"
	AuthMethodOAuthBearer = "oauthbearer"
)

// Credentials is the connection record, whichever of the three sources it
// came from.
type Credentials struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	User             string `json:"user"`
	Password         string `json:"password"`
	TLS              bool   `json:"tls"`
	AllowInsecureTLS bool   `json:"allowInsecureTls"`
	AuthMethod       string `json:"authMethod,omitempty"`
	AccessToken      string `json:"accessToken,omitempty"`
}

func (c *Credentials) validate() error {
	if c.Host == "" {
		return fmt.Errorf("credentials have no host")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("credentials have invalid port %v", c.Port)
	}

	switch c.AuthMethod {
	case "", AuthMethodLogin, AuthMethodPlain:
	case AuthMethodOAuthBearer:
		if c.AccessToken == "" {
			return fmt.Errorf("oauthbearer credentials have no access token")
		}
	default:
		return fmt.Errorf("unknown auth method %q", c.AuthMethod)
	}

	return nil
}

func (c *Credentials) authenticator() imap2.Authenticator {
	switch c.AuthMethod {
	case AuthMethodPlain:
		return imap2.NewSASLAuthenticator(sasl.NewPlainClient("", c.User, c.Password))
	case AuthMethodOAuthBearer:
		return imap2.NewOAuthBearerAuthenticator(c.User, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.AccessToken,
		}))
	default:
		return imap2.NewNormalAuthenticator(c.User, c.Password)
	}
}

// ClientConfig translates the record into a dialing config for the wrapped
// client.
func (c *Credentials) ClientConfig() *imap2.ClientConfig {
	cfg := &imap2.ClientConfig{
		HostPort: net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Auth:     c.authenticator(),
		TLS:      c.TLS,
	}

	if c.TLS && c.AllowInsecureTLS {
		// #nosec G402
		cfg.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return cfg
}

// credentialsFromMap decodes a JSON-shaped record, tolerating the numeric
// and boolean representations that survive a JSON round-trip.
func credentialsFromMap(m map[string]interface{}) (*Credentials, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	creds := &Credentials{Port: 993, TLS: true}
	if err := json.Unmarshal(raw, creds); err != nil {
		return nil, fmt.Errorf("malformed credential record: %w", err)
	}

	if err := creds.validate(); err != nil {
		return nil, err
	}

	return creds, nil
}

// ResolveCredentials picks the credential source the authentication
// parameter names. There is deliberately no fallback between sources.
// The record is resolved once per execution, against the first item.
func ResolveCredentials(ctx context.Context, run flow.Execution) (*Credentials, error) {
	auth := flow.StringParam(run, "authentication", 0)

	switch auth {
	case AuthStoredCredentials:
		m, err := run.Credentials(ctx, CredentialType)
		if err != nil {
			return nil, err
		}
		return credentialsFromMap(m)

	case AuthParameters:
		creds := &Credentials{
			Host:             flow.StringParam(run, "host", 0),
			Port:             flow.IntParam(run, "port", 0),
			User:             flow.StringParam(run, "user", 0),
			Password:         flow.StringParam(run, "password", 0),
			TLS:              flow.BoolParam(run, "tls", 0),
			AllowInsecureTLS: flow.BoolParam(run, "allowInsecureTls", 0),
			AuthMethod:       flow.StringParam(run, "authMethod", 0),
			AccessToken:      flow.StringParam(run, "accessToken", 0),
		}
		if err := creds.validate(); err != nil {
			return nil, err
		}
		return creds, nil

	case AuthItemField:
		field := flow.StringParam(run, "credentialsField", 0)
		if field == "" {
			return nil, fmt.Errorf("credentialsField is empty")
		}

		items := run.Items()
		v, ok := items[0].Field(field)
		if !ok {
			return nil, fmt.Errorf("input item has no field %q", field)
		}

		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q is not a credential record", field)
		}
		return credentialsFromMap(m)

	default:
		return nil, fmt.Errorf("unknown authentication source %q", auth)
	}
}
