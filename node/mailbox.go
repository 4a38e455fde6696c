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

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/emersion/go-imap"
)

func (n *IMAPNode) executeMailbox(c imap2.Client, run flow.Execution, item int, operation string) ([]flow.Item, error) {
	mailbox := flow.StringParam(run, "mailbox", item)

	switch operation {
	case OpGetMany:
		return n.mailboxGetMany(c, run, item)
	case OpCreate:
		if err := c.Create(mailbox); err != nil {
			return nil, n.nodeError(c, item, fmt.Sprintf("creating mailbox %v failed", mailbox), err)
		}
		return []flow.Item{mailboxResult(mailbox, "created")}, nil
	case OpRename:
		newName := flow.StringParam(run, "newName", item)
		if err := c.Rename(mailbox, newName); err != nil {
			return nil, n.nodeError(c, item, fmt.Sprintf("renaming mailbox %v failed", mailbox), err)
		}
		return []flow.Item{mailboxResult(newName, "renamed")}, nil
	case OpDelete:
		if err := c.Delete(mailbox); err != nil {
			return nil, n.nodeError(c, item, fmt.Sprintf("deleting mailbox %v failed", mailbox), err)
		}
		return []flow.Item{mailboxResult(mailbox, "deleted")}, nil
	case OpGetStatus:
		return n.mailboxGetStatus(c, run, item, mailbox)
	default:
		return nil, n.nodeError(c, item, fmt.Sprintf("unknown mailbox operation %q", operation), nil)
	}
}

// mailboxGetMany lists every mailbox under the root, one item per mailbox.
func (n *IMAPNode) mailboxGetMany(c imap2.Client, run flow.Execution, item int) ([]flow.Item, error) {
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() { done <- c.List("", "*", ch) }()

	var out []flow.Item
	for mi := range ch {
		it := flow.NewItem()
		it.JSON["name"] = mi.Name
		it.JSON["delimiter"] = mi.Delimiter
		it.JSON["attributes"] = mi.Attributes
		out = append(out, it)
	}

	if err := <-done; err != nil {
		return nil, n.nodeError(c, item, "listing mailboxes failed", err)
	}

	run.Logger().WithField("count", len(out)).Trace("mailbox_list_done")
	return out, nil
}

func (n *IMAPNode) mailboxGetStatus(c imap2.Client, run flow.Execution, item int, mailbox string) ([]flow.Item, error) {
	status, err := c.Status(mailbox, []imap.StatusItem{
		imap.StatusMessages,
		imap.StatusRecent,
		imap.StatusUnseen,
		imap.StatusUidNext,
		imap.StatusUidValidity,
	})
	if err != nil {
		return nil, n.nodeError(c, item, fmt.Sprintf("status of mailbox %v failed", mailbox), err)
	}

	it := flow.NewItem()
	it.JSON["name"] = status.Name
	it.JSON["messages"] = status.Messages
	it.JSON["recent"] = status.Recent
	it.JSON["unseen"] = status.Unseen
	it.JSON["uidNext"] = status.UidNext
	it.JSON["uidValidity"] = status.UidValidity
	return []flow.Item{it}, nil
}

func mailboxResult(name, action string) flow.Item {
	it := flow.NewItem()
	it.JSON["mailbox"] = name
	it.JSON["action"] = action
	it.JSON["success"] = true
	return it
}
