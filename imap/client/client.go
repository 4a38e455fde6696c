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

package client

import (
	"os"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/CryptofBoy1/n8n-nodes-imap/imap"
)

type Factory struct{}

// wrappedClient is *client.Client plus the error trap and a MOVE that
// works on servers without the extension.
type wrappedClient struct {
	*client.Client
	trap *imap.ErrorTrap
}

func (f *Factory) NewClient(cfg *imap.ClientConfig) (imap.Client, error) {
	var c *client.Client
	var err error
	if cfg.TLS {
		c, err = client.DialTLS(cfg.HostPort, cfg.TLSConfig)
	} else {
		c, err = client.Dial(cfg.HostPort)
	}

	if err != nil {
		return nil, err
	}

	c.Updates = cfg.Updates

	trap := imap.NewErrorTrap()
	c.ErrorLog = trap

	wantCleanup := true
	defer func() {
		if wantCleanup {
			_ = c.Logout()
		}
	}()

	if cfg.Debug {
		c.SetDebug(os.Stderr)
	}

	if cfg.Auth != nil {
		if err := cfg.Auth.Authenticate(c); err != nil {
			return nil, err
		}
	}

	wantCleanup = false
	return &wrappedClient{Client: c, trap: trap}, nil
}

func (c *wrappedClient) Errors() []string {
	return c.trap.Drain()
}

// UidMove uses MOVE when the server advertises it, otherwise the RFC 6851
// fallback of COPY, +FLAGS \Deleted and EXPUNGE. The fallback EXPUNGE acts
// on the whole selected mailbox: any message another session has flagged
// \Deleted is removed along with the moved set. go-imap exposes no UID
// EXPUNGE, so the fallback cannot be narrowed on UIDPLUS servers.
func (c *wrappedClient) UidMove(seqset *goimap.SeqSet, dest string) error {
	ok, err := c.Client.Support("MOVE")
	if err != nil {
		return err
	}

	if ok {
		return c.Client.UidMove(seqset, dest)
	}

	if err := c.Client.UidCopy(seqset, dest); err != nil {
		return err
	}

	item := goimap.FormatFlagsOp(goimap.AddFlags, true)
	if err := c.Client.UidStore(seqset, item, []interface{}{goimap.DeletedFlag}, nil); err != nil {
		return err
	}

	return c.Client.Expunge(nil)
}
