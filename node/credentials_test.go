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
	"testing"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsFromMap(t *testing.T) {
	creds, err := credentialsFromMap(map[string]interface{}{
		"host":     "imap.example.com",
		"user":     "user",
		"password": "pass",
	})
	require.NoError(t, err)

	// Defaults when the record doesn't say otherwise.
	assert.Equal(t, 993, creds.Port)
	assert.True(t, creds.TLS)
	assert.Equal(t, "imap.example.com:993", creds.ClientConfig().HostPort)
}

func TestCredentialsFromMapRejectsBadRecords(t *testing.T) {
	_, err := credentialsFromMap(map[string]interface{}{"user": "u"})
	assert.Error(t, err)

	_, err = credentialsFromMap(map[string]interface{}{"host": "h", "port": 99999})
	assert.Error(t, err)

	_, err = credentialsFromMap(map[string]interface{}{"host": "h", "authMethod": "kerberos"})
	assert.Error(t, err)

	_, err = credentialsFromMap(map[string]interface{}{"host": "h", "authMethod": AuthMethodOAuthBearer})
	assert.Error(t, err)
}

func TestCredentialsInsecureTLS(t *testing.T) {
	creds := &Credentials{Host: "h", Port: 993, TLS: true, AllowInsecureTLS: true}
	cfg := creds.ClientConfig()
	require.NotNil(t, cfg.TLSConfig)
	assert.True(t, cfg.TLSConfig.InsecureSkipVerify)

	creds.AllowInsecureTLS = false
	assert.Nil(t, creds.ClientConfig().TLSConfig)
}

func TestResolveCredentialsParameters(t *testing.T) {
	n := New(nil)
	run := flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"authentication": AuthParameters,
		"host":           "imap.example.com",
		"port":           143,
		"user":           "user",
		"password":       "pass",
		"tls":            false,
	}, nil, nil)

	creds, err := ResolveCredentials(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, "imap.example.com", creds.Host)
	assert.Equal(t, 143, creds.Port)
	assert.False(t, creds.TLS)
}

func TestResolveCredentialsItemField(t *testing.T) {
	n := New(nil)

	item := flow.NewItem()
	item.JSON["imapCredentials"] = map[string]interface{}{
		"host": "mail.example.com", "port": 143, "user": "u", "password": "p",
	}

	run := flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"authentication": AuthItemField,
	}, []flow.Item{item}, nil)

	creds, err := ResolveCredentials(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", creds.Host)
}

func TestResolveCredentialsItemFieldMissing(t *testing.T) {
	n := New(nil)

	run := flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"authentication":   AuthItemField,
		"credentialsField": "nope",
	}, nil, nil)

	_, err := ResolveCredentials(context.Background(), run)
	assert.Error(t, err)
}

// There is no fallback between credential sources: a missing store is an
// error even when parameters are set.
func TestResolveCredentialsNoFallback(t *testing.T) {
	n := New(nil)
	run := flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"authentication": AuthStoredCredentials,
		"host":           "imap.example.com",
	}, nil, nil)

	_, err := ResolveCredentials(context.Background(), run)
	assert.Error(t, err)
}

func TestResolveCredentialsUnknownSource(t *testing.T) {
	n := New(nil)
	run := flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"authentication": "telepathy",
	}, nil, nil)

	_, err := ResolveCredentials(context.Background(), run)
	assert.Error(t, err)
}

func TestDescriptorIsValid(t *testing.T) {
	n := New(nil)
	assert.NoError(t, n.Descriptor().Validate())

	node, ok := flow.Lookup("imap")
	require.True(t, ok)
	assert.Equal(t, "imap", node.Descriptor().Name)
}
