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
	"testing"

	"github.com/CryptofBoy1/n8n-nodes-imap/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxGetMany(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpGetMany,
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	var names []string
	for _, it := range out {
		names = append(names, it.JSON["name"].(string))
	}
	assert.Contains(t, names, "INBOX")
}

func TestMailboxCreateRenameDelete(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpCreate,
		"mailbox":   "Archive",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Archive", out[0].JSON["mailbox"])

	out, err = runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpRename,
		"mailbox":   "Archive",
		"newName":   "Archive2023",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Archive2023", out[0].JSON["mailbox"])

	_, err = runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpDelete,
		"mailbox":   "Archive2023",
	}, nil)
	require.NoError(t, err)

	out, err = runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpGetMany,
	}, nil)
	require.NoError(t, err)
	for _, it := range out {
		assert.NotEqual(t, "Archive2023", it.JSON["name"])
	}
}

func TestMailboxGetStatus(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 2)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpGetStatus,
		"mailbox":   "INBOX",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "INBOX", out[0].JSON["name"])
	assert.Equal(t, uint32(2), out[0].JSON["messages"])
	assert.Contains(t, out[0].JSON, "uidNext")
	assert.Contains(t, out[0].JSON, "uidValidity")
}

func TestMailboxUnknownOperation(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": "defragment",
	}, nil)
	assert.Error(t, err)
}
