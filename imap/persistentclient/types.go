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

package persistentclient

import (
	"crypto/tls"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
)

type Config struct {
	HostPort  string
	Auth      imap2.Authenticator
	Mailbox   string
	TLS       bool
	TLSConfig *tls.Config
	Debug     bool
	MaxDelay  time.Duration
	Updates   chan<- client.Update
}

// Factory builds PersistentIMAPClients bound to a mailbox.
type Factory struct {
	Mailbox  string
	MaxDelay time.Duration
}

type ClientState int

const (
	ClientStateDisconnected ClientState = iota
	ClientStateConnected
)

// PersistentIMAPClient proxies the Client interface through an actor loop
// that transparently redials when the connection drops. Used by the watch
// trigger; one-shot node executions use the plain client.
type PersistentIMAPClient struct {
	cfg Config
	c   imap2.Client
	ch  chan interface{}

	logoutChannel chan logoutRequest
	shutdown      int32
	loggedOut     chan struct{}
	logURL        string
}

type logoutRequest struct {
	r chan error
}

type idleRequest struct {
	r chan error

	stop <-chan struct{}
	opts *client.IdleOptions
}

type selectResponse struct {
	status *imap.MailboxStatus
	err    error
}

type selectRequest struct {
	r chan selectResponse

	name     string
	readOnly bool
}

type listRequest struct {
	r chan error

	ref  string
	name string
	ch   chan *imap.MailboxInfo
}

type createRequest struct {
	r chan error

	name string
}

type renameRequest struct {
	r chan error

	existingName string
	newName      string
}

type deleteRequest struct {
	r chan error

	name string
}

type statusResponse struct {
	status *imap.MailboxStatus
	err    error
}

type statusRequest struct {
	r chan statusResponse

	name  string
	items []imap.StatusItem
}

type uidSearchResponse struct {
	uids []uint32
	err  error
}

type uidSearchRequest struct {
	r chan uidSearchResponse

	criteria *imap.SearchCriteria
}

type uidFetchRequest struct {
	r chan error

	seqset *imap.SeqSet
	items  []imap.FetchItem
	ch     chan *imap.Message
}

type uidStoreRequest struct {
	r chan error

	seqset *imap.SeqSet
	item   imap.StoreItem
	value  interface{}
	ch     chan *imap.Message
}

type uidCopyRequest struct {
	r chan error

	seqset *imap.SeqSet
	dest   string
}

type uidMoveRequest struct {
	r chan error

	seqset *imap.SeqSet
	dest   string
}

type appendRequest struct {
	r chan error

	mbox  string
	flags []string
	date  time.Time
	msg   imap.Literal
}

type expungeRequest struct {
	r  chan error
	ch chan uint32
}

type supportResponse struct {
	ok  bool
	err error
}

type supportRequest struct {
	r chan supportResponse

	cap string
}

type mailboxRequest struct {
	r chan *imap.MailboxStatus
}

type errorsRequest struct {
	r chan []string
}
