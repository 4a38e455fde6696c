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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/urfave/cli/v2"

	"github.com/CryptofBoy1/n8n-nodes-imap/node"
)

func DefaultIMAPConfig() IMAPConfig {
	return IMAPConfig{
		AuthMethod:    "normal",
		TLSSkipVerify: false,
		Debug:         false,
	}
}

func (cfg *IMAPConfig) Parameters() []cli.Flag {
	def := DefaultIMAPConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "imap url, e.g. imaps://mail.example.com/INBOX",
			EnvVars:     []string{"IMAPNODE_URL"},
			Destination: &cfg.URL,
			Required:    true,
			Value:       def.URL,
		},
		&cli.StringFlag{
			Name:        "auth-method",
			Usage:       "auth method (normal, plain, oauthbearer)",
			EnvVars:     []string{"IMAPNODE_AUTH_METHOD"},
			Destination: &cfg.AuthMethod,
			Required:    false,
			Value:       def.AuthMethod,
		},
		&cli.StringFlag{
			Name:        "username",
			Usage:       "imap username",
			EnvVars:     []string{"IMAPNODE_USERNAME"},
			Destination: &cfg.Username,
			Required:    true,
			Value:       def.Username,
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "imap password, or access token for oauthbearer",
			EnvVars:     []string{"IMAPNODE_PASSWORD"},
			Destination: &cfg.Password,
			Required:    false,
			Value:       def.Password,
		},
		&cli.StringFlag{
			Name:        "password-file",
			Usage:       "imap password file",
			EnvVars:     []string{"IMAPNODE_PASSWORD_FILE"},
			Destination: &cfg.PasswordFile,
			Required:    false,
			Value:       def.PasswordFile,
		},
		&cli.BoolFlag{
			Name:        "tls-skip-verify",
			Usage:       "skip tls verification",
			EnvVars:     []string{"IMAPNODE_TLS_SKIP_VERIFY"},
			Destination: &cfg.TLSSkipVerify,
			Value:       def.TLSSkipVerify,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "display imap protocol debug info",
			EnvVars:     []string{"IMAPNODE_DEBUG"},
			Destination: &cfg.Debug,
			Value:       def.Debug,
		},
	}
}

func extractUrl(u *url.URL) (string, string, bool, error) {
	var defaultPort string
	var useTLS bool
	switch strings.ToLower(u.Scheme) {
	case "imap":
		defaultPort = "143"
		useTLS = false
	case "imaps":
		defaultPort = "993"
		useTLS = true
	default:
		return "", "", false, errInvalidScheme
	}

	host := u.Hostname()
	port := u.Port()

	if port == "" {
		port = defaultPort
	}

	return net.JoinHostPort(host, port), strings.TrimPrefix(u.Path, "/"), useTLS, nil
}

func (cfg *IMAPConfig) validateUserPass() (string, string, error) {
	if cfg.Username == "" {
		return "", "", fmt.Errorf("\"username\" is required when using %v auth", cfg.AuthMethod)
	}

	var password string
	username := cfg.Username

	if cfg.Password != "" {
		password = cfg.Password
	} else if cfg.PasswordFile != "" {
		pass, err := ioutil.ReadFile(cfg.PasswordFile)
		if err != nil {
			return "", "", err
		}

		password = strings.TrimSpace(string(pass))
	} else {
		return "", "", fmt.Errorf("at least one of the \"password\" or \"password-file\" flags is required")
	}

	return username, password, nil
}

// BuildCredentials resolves the flags into a credential record plus the
// mailbox named by the URL path, if any.
func (cfg *IMAPConfig) BuildCredentials() (*node.Credentials, string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, "", err
	}

	hostPort, mailbox, useTLS, err := extractUrl(u)
	if err != nil {
		return nil, "", err
	}

	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return nil, "", err
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, "", err
	}

	creds := &node.Credentials{
		Host:             host,
		Port:             port,
		TLS:              useTLS,
		AllowInsecureTLS: cfg.TLSSkipVerify,
	}

	switch strings.ToUpper(cfg.AuthMethod) {
	case "", "NORMAL":
		user, pass, err := cfg.validateUserPass()
		if err != nil {
			return nil, "", err
		}
		creds.User = user
		creds.Password = pass
		creds.AuthMethod = node.AuthMethodLogin
	case sasl.Plain:
		user, pass, err := cfg.validateUserPass()
		if err != nil {
			return nil, "", err
		}
		creds.User = user
		creds.Password = pass
		creds.AuthMethod = node.AuthMethodPlain
	case sasl.OAuthBearer:
		user, token, err := cfg.validateUserPass()
		if err != nil {
			return nil, "", err
		}
		creds.User = user
		creds.AccessToken = token
		creds.AuthMethod = node.AuthMethodOAuthBearer
	default:
		return nil, "", fmt.Errorf("unsupported auth method: %v", cfg.AuthMethod)
	}

	return creds, mailbox, nil
}

// CredentialsMap renders a record the way the host credential store hands
// it to the node.
func CredentialsMap(creds *node.Credentials) map[string]interface{} {
	raw, err := json.Marshal(creds)
	if err != nil {
		return nil
	}

	m := map[string]interface{}{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
