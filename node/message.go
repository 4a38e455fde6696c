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
	"bytes"
	"fmt"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-message"
	"github.com/jhillyerd/enmime"
)

func (n *IMAPNode) executeMessage(c imap2.Client, run flow.Execution, item int, operation string) ([]flow.Item, error) {
	mailbox := flow.StringParam(run, "mailbox", item)
	if mailbox == "" {
		mailbox = "INBOX"
	}

	switch operation {
	case OpGetMany:
		return n.messageGetMany(c, run, item, mailbox)
	case OpGet:
		return n.messageGet(c, run, item, mailbox)
	case OpDownloadAttachment:
		return n.messageDownloadAttachment(c, run, item, mailbox)
	case OpMove, OpCopy:
		return n.messageTransfer(c, run, item, mailbox, operation)
	case OpDelete:
		return n.messageDelete(c, run, item, mailbox)
	case OpAddFlags, OpRemoveFlags:
		return n.messageStoreFlags(c, run, item, mailbox, operation)
	case OpDraft:
		return n.messageDraft(c, run, item, mailbox)
	default:
		return nil, n.nodeError(c, item, fmt.Sprintf("unknown message operation %q", operation), nil)
	}
}

func (n *IMAPNode) uidSetParam(c imap2.Client, run flow.Execution, item int) (*imap.SeqSet, error) {
	raw := flow.StringParam(run, "uids", item)

	seqset, err := imap.ParseSeqSet(raw)
	if err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("invalid UID set %q", raw), err)
	}

	return seqset, nil
}

// searchCriteria builds UID SEARCH criteria from the getMany filter
// parameters.
func searchCriteria(run flow.Execution, item int) *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()

	if flow.BoolParam(run, "unseenOnly", item) {
		criteria.WithoutFlags = []string{imap.SeenFlag}
	}

	hdr := make(textproto.MIMEHeader)
	if v := flow.StringParam(run, "from", item); v != "" {
		hdr.Add("From", v)
	}
	if v := flow.StringParam(run, "to", item); v != "" {
		hdr.Add("To", v)
	}
	if v := flow.StringParam(run, "subject", item); v != "" {
		hdr.Add("Subject", v)
	}
	if len(hdr) != 0 {
		criteria.Header = hdr
	}

	if v := flow.StringParam(run, "text", item); v != "" {
		criteria.Text = []string{v}
	}
	if t, ok := flow.DateParam(run, "since", item); ok {
		criteria.Since = t
	}
	if t, ok := flow.DateParam(run, "before", item); ok {
		criteria.Before = t
	}

	return criteria
}

// fetchMessages collects a UID FETCH into a slice, newest first. The body
// section is fetched with PEEK so the fetch itself never sets \Seen.
func (n *IMAPNode) fetchMessages(c imap2.Client, seqset *imap.SeqSet, withBody bool) ([]*imap.Message, *imap.BodySectionName, error) {
	fetchItems := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, imap.FetchRFC822Size}

	var section *imap.BodySectionName
	if withBody {
		section = &imap.BodySectionName{Peek: true}
		fetchItems = append(fetchItems, section.FetchItem())
	}

	ch := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() { done <- c.UidFetch(seqset, fetchItems, ch) }()

	var msgs []*imap.Message
	for msg := range ch {
		msgs = append(msgs, msg)
	}

	if err := <-done; err != nil {
		return nil, nil, err
	}

	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Uid > msgs[j].Uid })
	return msgs, section, nil
}

func (n *IMAPNode) shapeMessages(c imap2.Client, run flow.Execution, item int, mailbox string, msgs []*imap.Message, section *imap.BodySectionName) ([]flow.Item, error) {
	includeAttachments := flow.BoolParam(run, "includeAttachments", item)

	var out []flow.Item
	for _, msg := range msgs {
		it := MessageItem(mailbox, msg)

		if section != nil {
			if body := msg.GetBody(section); body != nil {
				if err := AttachBody(&it, body, includeAttachments); err != nil {
					return nil, n.nodeError(c, item, fmt.Sprintf("parsing message %v failed", msg.Uid), err)
				}
			}
		}

		out = append(out, it)
	}

	return out, nil
}

func (n *IMAPNode) markSeen(c imap2.Client, run flow.Execution, item int, msgs []*imap.Message) error {
	if len(msgs) == 0 || !flow.BoolParam(run, "markSeen", item) {
		return nil
	}

	seqset := new(imap.SeqSet)
	for _, msg := range msgs {
		seqset.AddNum(msg.Uid)
	}

	op := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.UidStore(seqset, op, []interface{}{imap.SeenFlag}, nil); err != nil {
		return n.nodeError(c, item, "marking messages seen failed", err)
	}
	return nil
}

func (n *IMAPNode) messageGetMany(c imap2.Client, run flow.Execution, item int, mailbox string) ([]flow.Item, error) {
	markSeen := flow.BoolParam(run, "markSeen", item)
	if _, err := c.Select(mailbox, !markSeen); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("selecting mailbox %v failed", mailbox), err)
	}

	uids, err := c.UidSearch(searchCriteria(run, item))
	if err != nil {
		return nil, n.nodeError(c, item, "message search failed", err)
	}

	// An empty search result is an empty output, not an error.
	if len(uids) == 0 {
		run.Logger().WithField("mailbox", mailbox).Trace("message_search_empty")
		return nil, nil
	}

	// SEARCH returns UIDs ascending, so the newest N are at the tail.
	if limit := flow.IntParam(run, "limit", item); limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	withBody := flow.BoolParam(run, "includeBody", item) || flow.BoolParam(run, "includeAttachments", item)
	msgs, section, err := n.fetchMessages(c, seqset, withBody)
	if err != nil {
		return nil, n.nodeError(c, item, "message fetch failed", err)
	}

	if err := n.markSeen(c, run, item, msgs); err != nil {
		return nil, err
	}

	return n.shapeMessages(c, run, item, mailbox, msgs, section)
}

func (n *IMAPNode) messageGet(c imap2.Client, run flow.Execution, item int, mailbox string) ([]flow.Item, error) {
	seqset, err := n.uidSetParam(c, run, item)
	if err != nil {
		return nil, err
	}

	markSeen := flow.BoolParam(run, "markSeen", item)
	if _, err := c.Select(mailbox, !markSeen); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("selecting mailbox %v failed", mailbox), err)
	}

	withBody := flow.BoolParam(run, "includeBody", item) || flow.BoolParam(run, "includeAttachments", item)
	msgs, section, err := n.fetchMessages(c, seqset, withBody)
	if err != nil {
		return nil, n.nodeError(c, item, "message fetch failed", err)
	}

	if err := n.markSeen(c, run, item, msgs); err != nil {
		return nil, err
	}

	return n.shapeMessages(c, run, item, mailbox, msgs, section)
}

func (n *IMAPNode) messageDownloadAttachment(c imap2.Client, run flow.Execution, item int, mailbox string) ([]flow.Item, error) {
	seqset, err := n.uidSetParam(c, run, item)
	if err != nil {
		return nil, err
	}

	if _, err := c.Select(mailbox, true); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("selecting mailbox %v failed", mailbox), err)
	}

	msgs, section, err := n.fetchMessages(c, seqset, true)
	if err != nil {
		return nil, n.nodeError(c, item, "message fetch failed", err)
	}

	index := flow.IntParam(run, "attachmentIndex", item)
	property := flow.StringParam(run, "binaryProperty", item)
	if property == "" {
		property = "attachment"
	}

	var out []flow.Item
	for _, msg := range msgs {
		body := msg.GetBody(section)
		if body == nil {
			return nil, n.nodeError(c, item, fmt.Sprintf("message %v has no body", msg.Uid), nil)
		}

		env, err := enmime.ReadEnvelope(body)
		if err != nil {
			return nil, n.nodeError(c, item, fmt.Sprintf("parsing message %v failed", msg.Uid), err)
		}

		if index < 0 || index >= len(env.Attachments) {
			return nil, n.nodeError(c, item,
				fmt.Sprintf("message %v has no attachment at index %v", msg.Uid, index), nil)
		}

		att := env.Attachments[index]

		it := flow.NewItem()
		it.JSON["uid"] = msg.Uid
		it.JSON["mailbox"] = mailbox
		it.JSON["fileName"] = att.FileName
		it.JSON["mimeType"] = att.ContentType
		it.JSON["size"] = len(att.Content)
		it.SetBinary(property, &flow.Attachment{
			Data:     att.Content,
			FileName: att.FileName,
			MimeType: att.ContentType,
		})

		out = append(out, it)
	}

	return out, nil
}

func (n *IMAPNode) messageTransfer(c imap2.Client, run flow.Execution, item int, mailbox, operation string) ([]flow.Item, error) {
	seqset, err := n.uidSetParam(c, run, item)
	if err != nil {
		return nil, err
	}

	dest := flow.StringParam(run, "destination", item)
	if dest == "" {
		return nil, n.nodeError(c, item, "destination mailbox is empty", nil)
	}

	if _, err := c.Select(mailbox, false); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("selecting mailbox %v failed", mailbox), err)
	}

	action := "copied"
	if operation == OpMove {
		action = "moved"
		err = c.UidMove(seqset, dest)
	} else {
		err = c.UidCopy(seqset, dest)
	}
	if err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("%v to %v failed", operation, dest), err)
	}

	it := flow.NewItem()
	it.JSON["uids"] = seqset.String()
	it.JSON["mailbox"] = mailbox
	it.JSON["destination"] = dest
	it.JSON["action"] = action
	it.JSON["success"] = true
	return []flow.Item{it}, nil
}

// messageDelete flags the set \Deleted and expunges the mailbox.
func (n *IMAPNode) messageDelete(c imap2.Client, run flow.Execution, item int, mailbox string) ([]flow.Item, error) {
	seqset, err := n.uidSetParam(c, run, item)
	if err != nil {
		return nil, err
	}

	if _, err := c.Select(mailbox, false); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("selecting mailbox %v failed", mailbox), err)
	}

	op := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.UidStore(seqset, op, []interface{}{imap.DeletedFlag}, nil); err != nil {
		return nil, n.nodeError(c, item, "flagging messages deleted failed", err)
	}

	if err := c.Expunge(nil); err != nil {
		return nil, n.nodeError(c, item, "expunge failed", err)
	}

	it := flow.NewItem()
	it.JSON["uids"] = seqset.String()
	it.JSON["mailbox"] = mailbox
	it.JSON["action"] = "deleted"
	it.JSON["success"] = true
	return []flow.Item{it}, nil
}

func (n *IMAPNode) messageStoreFlags(c imap2.Client, run flow.Execution, item int, mailbox, operation string) ([]flow.Item, error) {
	seqset, err := n.uidSetParam(c, run, item)
	if err != nil {
		return nil, err
	}

	flags := flow.ListParam(run, "flags", item)
	if len(flags) == 0 {
		return nil, n.nodeError(c, item, "no flags given", nil)
	}

	values := make([]interface{}, 0, len(flags))
	for _, f := range flags {
		values = append(values, canonicalFlag(f))
	}

	if _, err := c.Select(mailbox, false); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("selecting mailbox %v failed", mailbox), err)
	}

	flagsOp := imap.FlagsOp(imap.AddFlags)
	action := "flagsAdded"
	if operation == OpRemoveFlags {
		flagsOp = imap.RemoveFlags
		action = "flagsRemoved"
	}

	op := imap.FormatFlagsOp(flagsOp, true)
	if err := c.UidStore(seqset, op, values, nil); err != nil {
		return nil, n.nodeError(c, item, "updating flags failed", err)
	}

	it := flow.NewItem()
	it.JSON["uids"] = seqset.String()
	it.JSON["mailbox"] = mailbox
	it.JSON["flags"] = flags
	it.JSON["action"] = action
	it.JSON["success"] = true
	return []flow.Item{it}, nil
}

// canonicalFlag maps bare flag names to their IMAP system flags. Unknown
// names pass through as keywords.
func canonicalFlag(name string) string {
	switch strings.ToLower(strings.TrimPrefix(name, "\\")) {
	case "seen":
		return imap.SeenFlag
	case "answered":
		return imap.AnsweredFlag
	case "flagged":
		return imap.FlaggedFlag
	case "deleted":
		return imap.DeletedFlag
	case "draft":
		return imap.DraftFlag
	case "recent":
		return imap.RecentFlag
	default:
		return name
	}
}

func (n *IMAPNode) messageDraft(c imap2.Client, run flow.Execution, item int, mailbox string) ([]flow.Item, error) {
	raw := []byte(flow.StringParam(run, "rawMessage", item))

	if len(raw) == 0 {
		composed, err := composeDraft(
			flow.StringParam(run, "draftTo", item),
			flow.StringParam(run, "draftSubject", item),
			flow.StringParam(run, "draftText", item))
		if err != nil {
			return nil, n.nodeError(c, item, "composing draft failed", err)
		}
		raw = composed
	}

	if err := c.Append(mailbox, []string{imap.DraftFlag}, time.Now(), bytes.NewBuffer(raw)); err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("appending draft to %v failed", mailbox), err)
	}

	it := flow.NewItem()
	it.JSON["mailbox"] = mailbox
	it.JSON["size"] = len(raw)
	it.JSON["action"] = "draftCreated"
	it.JSON["success"] = true
	return []flow.Item{it}, nil
}

func composeDraft(to, subject, text string) ([]byte, error) {
	hdr := message.Header{}
	if to != "" {
		hdr.Add("To", to)
	}
	hdr.Add("Subject", subject)
	hdr.Add("Date", time.Now().Format(time.RFC1123Z))
	hdr.Add("MIME-Version", "1.0")
	hdr.Add("Content-Type", "text/plain; charset=utf-8")

	msg, err := message.New(hdr, strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := msg.WriteTo(buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
