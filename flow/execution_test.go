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

package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDescriptor() *Descriptor {
	return &Descriptor{
		Name:    "test",
		Version: 1,
		Properties: []Property{
			{Name: "mailbox", DisplayName: "Mailbox", Type: PropertyString, Default: "INBOX"},
			{Name: "limit", DisplayName: "Limit", Type: PropertyNumber, Default: 50},
		},
	}
}

func TestExecutionParameterDefaults(t *testing.T) {
	run := NewExecution(testDescriptor(), map[string]interface{}{"limit": 10}, nil, nil)

	v, ok := run.Parameter("limit", 0)
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	v, ok = run.Parameter("mailbox", 0)
	assert.True(t, ok)
	assert.Equal(t, "INBOX", v)

	_, ok = run.Parameter("unknown", 0)
	assert.False(t, ok)
}

func TestExecutionEmptyInputRunsOnce(t *testing.T) {
	run := NewExecution(testDescriptor(), nil, nil, nil)
	assert.Len(t, run.Items(), 1)
}

func TestExecutionCredentials(t *testing.T) {
	store := MemoryCredentials{
		"imap": {"host": "localhost", "port": 143},
	}

	run := NewExecution(testDescriptor(), nil, nil, store)

	creds, err := run.Credentials(context.Background(), "imap")
	assert.NoError(t, err)
	assert.Equal(t, "localhost", creds["host"])

	_, err = run.Credentials(context.Background(), "smtp")
	assert.Error(t, err)

	noStore := NewExecution(testDescriptor(), nil, nil, nil)
	_, err = noStore.Credentials(context.Background(), "imap")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	Register("test-node", func() Node { return nil })

	_, ok := Lookup("test-node")
	assert.True(t, ok)

	_, ok = Lookup("unknown-node")
	assert.False(t, ok)

	assert.Contains(t, Types(), "test-node")
}

func TestNodeError(t *testing.T) {
	cause := errors.New("boom")
	err := &NodeError{Node: "imap", Message: "fetch failed", ItemIndex: 2, Cause: cause}

	assert.Equal(t, "imap: fetch failed (item 2)", err.Error())
	assert.True(t, errors.Is(err, cause))

	err.ItemIndex = -1
	assert.Equal(t, "imap: fetch failed", err.Error())
}
