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
	"net"
	"strconv"
	"testing"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/CryptofBoy1/n8n-nodes-imap/imap/mock"
	"github.com/CryptofBoy1/n8n-nodes-imap/internal"
	"github.com/emersion/go-imap/backend/memory"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestNode(t *testing.T) (*IMAPNode, string, *memory.Mailbox) {
	_, addr, mbox := internal.BuildTestIMAPServer(t)
	return New(nil), addr, mbox
}

func testCredentialMap(t *testing.T, addr string) map[string]interface{} {
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return map[string]interface{}{
		"host":     host,
		"port":     port,
		"user":     "username",
		"password": "password",
		"tls":      false,
	}
}

// runNode executes the node against the test server with the default
// stored-credentials source.
func runNode(t *testing.T, n *IMAPNode, addr string, params map[string]interface{}, items []flow.Item) ([]flow.Item, error) {
	store := flow.MemoryCredentials{CredentialType: testCredentialMap(t, addr)}
	run := flow.NewExecution(n.Descriptor(), params, items, store)
	return n.Execute(context.Background(), run)
}

func TestExecuteUnknownResource(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	_, err := runNode(t, n, addr, map[string]interface{}{"resource": "calendar"}, nil)
	require.Error(t, err)

	nodeErr := &flow.NodeError{}
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, 0, nodeErr.ItemIndex)
	assert.Contains(t, nodeErr.Message, "calendar")
}

func TestExecuteConnectionRefused(t *testing.T) {
	n := New(nil)

	store := flow.MemoryCredentials{CredentialType: map[string]interface{}{
		"host": "localhost", "port": 1, "user": "u", "password": "p", "tls": false,
	}}
	run := flow.NewExecution(n.Descriptor(), nil, nil, store)

	_, err := n.Execute(context.Background(), run)
	require.Error(t, err)

	nodeErr := &flow.NodeError{}
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, -1, nodeErr.ItemIndex)
	assert.NotEmpty(t, nodeErr.Description)
}

// Credential failures are not tied to an input item unless the record comes
// from one.
func TestExecuteCredentialFailureItemIndex(t *testing.T) {
	n := New(nil)

	// Stored-credentials source, no store attached.
	run := flow.NewExecution(n.Descriptor(), nil, nil, nil)
	_, err := n.Execute(context.Background(), run)
	require.Error(t, err)

	nodeErr := &flow.NodeError{}
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, -1, nodeErr.ItemIndex)

	// The itemField source reads the first input item, so the failure
	// names it.
	run = flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"authentication":   AuthItemField,
		"credentialsField": "imapCreds",
	}, nil, nil)
	_, err = n.Execute(context.Background(), run)
	require.Error(t, err)

	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, 0, nodeErr.ItemIndex)
}

func TestExecuteCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := mock.NewMockClient(ctrl)
	c.EXPECT().Errors().Return(nil)
	c.EXPECT().Logout().Return(nil)

	n := New(&fakeFactory{c: c})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := flow.MemoryCredentials{CredentialType: map[string]interface{}{
		"host": "localhost", "port": 143, "user": "u", "password": "p", "tls": false,
	}}
	run := flow.NewExecution(n.Descriptor(), nil, nil, store)

	_, err := n.Execute(ctx, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// Lines the wrapped library swallowed into its logger end up in the error
// description.
func TestExecuteMergesTrappedErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := mock.NewMockClient(ctrl)
	c.EXPECT().Errors().Return([]string{"response could not be parsed"})
	c.EXPECT().Logout().Return(nil)

	n := New(&fakeFactory{c: c})

	store := flow.MemoryCredentials{CredentialType: map[string]interface{}{
		"host": "localhost", "port": 143, "user": "u", "password": "p", "tls": false,
	}}
	run := flow.NewExecution(n.Descriptor(), map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": "explode",
	}, nil, store)

	_, err := n.Execute(context.Background(), run)
	require.Error(t, err)

	nodeErr := &flow.NodeError{}
	require.ErrorAs(t, err, &nodeErr)
	assert.Contains(t, nodeErr.Description, "response could not be parsed")
}

func TestCredentialsHook(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	creds := testCredentialMap(t, addr)
	assert.NoError(t, n.TestCredentials(context.Background(), creds))

	creds["password"] = "wrong"
	assert.Error(t, n.TestCredentials(context.Background(), creds))
}

type fakeFactory struct {
	c imap2.Client
}

func (f *fakeFactory) NewClient(_ *imap2.ClientConfig) (imap2.Client, error) {
	return f.c, nil
}
