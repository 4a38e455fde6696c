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

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/CryptofBoy1/n8n-nodes-imap/internal"
	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const attachmentMessage = "From: sender@example.com\r\n" +
	"To: to@example.com\r\n" +
	"Subject: with attachment\r\n" +
	"Date: Wed, 11 May 2016 14:31:59 +0000\r\n" +
	"Message-ID: <att@localhost>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=xyz\r\n" +
	"\r\n" +
	"--xyz\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"see attached\r\n" +
	"--xyz\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"Content-Disposition: attachment; filename=\"data.bin\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"SGVsbG8h\r\n" +
	"--xyz--\r\n"

func TestMessageGetMany(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 3)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":    ResourceMessage,
		"operation":   OpGetMany,
		"includeBody": true,
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Newest first.
	assert.Equal(t, uint32(3), out[0].JSON["uid"])
	assert.Equal(t, uint32(1), out[2].JSON["uid"])

	assert.Equal(t, "Test Email 2", out[0].JSON["subject"])
	assert.Equal(t, "INBOX", out[0].JSON["mailbox"])
	assert.Contains(t, out[0].JSON["textBody"], "body 2")

	from := out[0].JSON["from"].([]interface{})
	require.Len(t, from, 1)
	assert.Equal(t, "sender2@example.com", from[0].(map[string]interface{})["address"])
}

func TestMessageGetManyLimit(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 5)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpGetMany,
		"limit":     2,
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint32(5), out[0].JSON["uid"])
	assert.Equal(t, uint32(4), out[1].JSON["uid"])
}

func TestMessageGetManyUnseenOnly(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.AppendTestMessage(t, mbox, []string{imap.SeenFlag},
		internal.BuildTestMessage(t, "a@example.com", "seen", "<s@localhost>", "old"))
	internal.AppendTestMessage(t, mbox, nil,
		internal.BuildTestMessage(t, "b@example.com", "unseen", "<u@localhost>", "new"))

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":   ResourceMessage,
		"operation":  OpGetMany,
		"unseenOnly": true,
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "unseen", out[0].JSON["subject"])
}

func TestMessageGetManySubjectFilter(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 3)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpGetMany,
		"subject":   "Test Email 1",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint32(2), out[0].JSON["uid"])
}

func TestMessageGetManyEmptyResult(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpGetMany,
		"subject":   "no such subject",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMessageGetManyMarkSeen(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 1)

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpGetMany,
		"markSeen":  true,
	}, nil)
	require.NoError(t, err)

	require.Len(t, mbox.Messages, 1)
	assert.Contains(t, mbox.Messages[0].Flags, imap.SeenFlag)
}

func TestMessageGet(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 3)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpGet,
		"uids":      "2",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint32(2), out[0].JSON["uid"])
	assert.Equal(t, "Test Email 1", out[0].JSON["subject"])
}

func TestMessageGetInvalidUIDSet(t *testing.T) {
	n, addr, _ := buildTestNode(t)

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpGet,
		"uids":      "not-a-set",
	}, nil)
	require.Error(t, err)

	nodeErr := &flow.NodeError{}
	require.ErrorAs(t, err, &nodeErr)
	assert.Contains(t, nodeErr.Message, "not-a-set")
}

func TestMessageDownloadAttachment(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.AppendTestMessage(t, mbox, nil, []byte(attachmentMessage))

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpDownloadAttachment,
		"uids":      "1",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "data.bin", out[0].JSON["fileName"])

	att := out[0].Binary["attachment"]
	require.NotNil(t, att)
	assert.Equal(t, []byte("Hello!"), att.Data)
	assert.Equal(t, "data.bin", att.FileName)
}

func TestMessageDownloadAttachmentBadIndex(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.AppendTestMessage(t, mbox, nil, []byte(attachmentMessage))

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":        ResourceMessage,
		"operation":       OpDownloadAttachment,
		"uids":            "1",
		"attachmentIndex": 5,
	}, nil)
	assert.Error(t, err)
}

func TestMessageMove(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 2)

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpCreate,
		"mailbox":   "Archive",
	}, nil)
	require.NoError(t, err)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":    ResourceMessage,
		"operation":   OpMove,
		"uids":        "1",
		"destination": "Archive",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "moved", out[0].JSON["action"])

	assert.Len(t, mbox.Messages, 1)

	out, err = runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpGetStatus,
		"mailbox":   "Archive",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint32(1), out[0].JSON["messages"])
}

func TestMessageCopy(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 1)

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMailbox,
		"operation": OpCreate,
		"mailbox":   "Copies",
	}, nil)
	require.NoError(t, err)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":    ResourceMessage,
		"operation":   OpCopy,
		"uids":        "1",
		"destination": "Copies",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "copied", out[0].JSON["action"])

	// The original stays put.
	assert.Len(t, mbox.Messages, 1)
}

func TestMessageDelete(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 3)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpDelete,
		"uids":      "1:2",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "deleted", out[0].JSON["action"])

	require.Len(t, mbox.Messages, 1)
	assert.Equal(t, uint32(3), mbox.Messages[0].Uid)
}

func TestMessageAddRemoveFlags(t *testing.T) {
	n, addr, mbox := buildTestNode(t)
	internal.SeedMessages(t, mbox, 1)

	_, err := runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpAddFlags,
		"uids":      "1",
		"flags":     "flagged, seen",
	}, nil)
	require.NoError(t, err)

	require.Len(t, mbox.Messages, 1)
	assert.Contains(t, mbox.Messages[0].Flags, imap.FlaggedFlag)
	assert.Contains(t, mbox.Messages[0].Flags, imap.SeenFlag)

	_, err = runNode(t, n, addr, map[string]interface{}{
		"resource":  ResourceMessage,
		"operation": OpRemoveFlags,
		"uids":      "1",
		"flags":     "\\Flagged",
	}, nil)
	require.NoError(t, err)
	assert.NotContains(t, mbox.Messages[0].Flags, imap.FlaggedFlag)
}

func TestMessageDraft(t *testing.T) {
	n, addr, mbox := buildTestNode(t)

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":     ResourceMessage,
		"operation":    OpDraft,
		"mailbox":      "INBOX",
		"draftTo":      "someone@example.com",
		"draftSubject": "draft subject",
		"draftText":    "draft body",
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "draftCreated", out[0].JSON["action"])

	require.Len(t, mbox.Messages, 1)
	assert.Contains(t, mbox.Messages[0].Flags, imap.DraftFlag)
}

// A raw RFC822 payload is appended as-is, bypassing composition.
func TestMessageDraftRaw(t *testing.T) {
	n, addr, mbox := buildTestNode(t)

	raw := "From: me@example.com\r\n" +
		"To: you@example.com\r\n" +
		"Subject: raw draft\r\n" +
		"\r\n" +
		"raw draft body\r\n"

	out, err := runNode(t, n, addr, map[string]interface{}{
		"resource":   ResourceMessage,
		"operation":  OpDraft,
		"mailbox":    "INBOX",
		"rawMessage": raw,
	}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "draftCreated", out[0].JSON["action"])
	assert.Equal(t, len(raw), out[0].JSON["size"])

	require.Len(t, mbox.Messages, 1)
	assert.Contains(t, mbox.Messages[0].Flags, imap.DraftFlag)
	assert.Contains(t, string(mbox.Messages[0].Body), "raw draft body")
}

func TestCanonicalFlag(t *testing.T) {
	assert.Equal(t, imap.SeenFlag, canonicalFlag("seen"))
	assert.Equal(t, imap.SeenFlag, canonicalFlag("\\Seen"))
	assert.Equal(t, imap.DeletedFlag, canonicalFlag("DELETED"))
	assert.Equal(t, "$Forwarded", canonicalFlag("$Forwarded"))
}

func TestSearchCriteria(t *testing.T) {
	run := flow.NewExecution(descriptor, map[string]interface{}{
		"unseenOnly": true,
		"from":       "sender@example.com",
		"subject":    "hello",
		"text":       "needle",
		"since":      "2023-01-01",
		"before":     "2023-06-01",
	}, nil, nil)

	criteria := searchCriteria(run, 0)
	assert.Equal(t, []string{imap.SeenFlag}, criteria.WithoutFlags)
	assert.Equal(t, "sender@example.com", criteria.Header.Get("From"))
	assert.Equal(t, "hello", criteria.Header.Get("Subject"))
	assert.Equal(t, []string{"needle"}, criteria.Text)
	assert.False(t, criteria.Since.IsZero())
	assert.False(t, criteria.Before.IsZero())
}
