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

package imap

import (
	"crypto/tls"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Client is the slice of the wrapped IMAP library the node uses. Message
// operations are UID-based throughout; sequence numbers don't survive
// expunges between items.
type Client interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)

	List(ref, name string, ch chan *imap.MailboxInfo) error

	Create(name string) error

	Rename(existingName, newName string) error

	Delete(name string) error

	Status(name string, items []imap.StatusItem) (*imap.MailboxStatus, error)

	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)

	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error

	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error

	UidCopy(seqset *imap.SeqSet, dest string) error

	// UidMove moves messages, falling back to copy/flag/expunge on servers
	// without the MOVE extension.
	UidMove(seqset *imap.SeqSet, dest string) error

	Append(mbox string, flags []string, date time.Time, msg imap.Literal) error

	Expunge(ch chan uint32) error

	Idle(stop <-chan struct{}, opts *client.IdleOptions) error

	Support(cap string) (bool, error)

	Mailbox() *imap.MailboxStatus

	// Errors drains the error lines the wrapped library swallowed into its
	// logger since the last call.
	Errors() []string

	Logout() error

	LoggedOut() <-chan struct{}
}

type ClientConfig struct {
	HostPort  string
	Auth      Authenticator
	TLS       bool
	TLSConfig *tls.Config
	Debug     bool
	Updates   chan<- client.Update
}

type ClientFactory interface {
	NewClient(cfg *ClientConfig) (Client, error)
}

type Message = imap.Message
type SeqSet = imap.SeqSet
type StoreItem = imap.StoreItem
type MailboxStatus = imap.MailboxStatus
type MailboxInfo = imap.MailboxInfo
type FetchItem = imap.FetchItem
type Literal = imap.Literal
