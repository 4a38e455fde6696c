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
	"fmt"
	"io"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/emersion/go-imap"
	"github.com/jhillyerd/enmime"
)

func addressList(addrs []*imap.Address) []interface{} {
	var out []interface{}
	for _, a := range addrs {
		out = append(out, map[string]interface{}{
			"name":    a.PersonalName,
			"address": a.Address(),
		})
	}
	return out
}

// MessageItem shapes the envelope-level view of a fetched message.
func MessageItem(mailbox string, msg *imap.Message) flow.Item {
	it := flow.NewItem()
	it.JSON["uid"] = msg.Uid
	it.JSON["mailbox"] = mailbox
	it.JSON["flags"] = msg.Flags
	it.JSON["size"] = msg.Size

	if env := msg.Envelope; env != nil {
		it.JSON["subject"] = env.Subject
		it.JSON["date"] = env.Date
		it.JSON["from"] = addressList(env.From)
		it.JSON["to"] = addressList(env.To)
		it.JSON["cc"] = addressList(env.Cc)
		it.JSON["messageId"] = env.MessageId
		it.JSON["inReplyTo"] = env.InReplyTo
	}

	return it
}

// AttachBody parses the raw message body and folds text, html, headers and
// attachment metadata into the item. Attachment bytes go into the item's
// binary map when requested.
func AttachBody(it *flow.Item, body io.Reader, includeAttachments bool) error {
	env, err := enmime.ReadEnvelope(body)
	if err != nil {
		return err
	}

	it.JSON["textBody"] = env.Text
	it.JSON["htmlBody"] = env.HTML

	headers := map[string]interface{}{}
	for _, k := range env.GetHeaderKeys() {
		headers[k] = env.GetHeader(k)
	}
	it.JSON["headers"] = headers

	var atts []interface{}
	for i, att := range env.Attachments {
		atts = append(atts, map[string]interface{}{
			"index":    i,
			"fileName": att.FileName,
			"mimeType": att.ContentType,
			"size":     len(att.Content),
		})

		if includeAttachments {
			it.SetBinary(fmt.Sprintf("attachment_%d", i), &flow.Attachment{
				Data:     att.Content,
				FileName: att.FileName,
				MimeType: att.ContentType,
			})
		}
	}
	it.JSON["attachments"] = atts

	return nil
}
