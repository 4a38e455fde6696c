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
	"testing"

	goimap "github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"

	"github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/CryptofBoy1/n8n-nodes-imap/internal"
)

func TestPersistentClientAgainstServer(t *testing.T) {
	_, address, mbox := internal.BuildTestIMAPServer(t)
	internal.SeedMessages(t, mbox, 2)

	f := &Factory{Mailbox: "INBOX"}
	c, err := f.NewClient(&imap.ClientConfig{
		HostPort: address,
		Auth:     imap.NewNormalAuthenticator("username", "password"),
	})
	assert.NoError(t, err)

	status, err := c.Status("INBOX", []goimap.StatusItem{goimap.StatusMessages})
	assert.NoError(t, err)
	assert.Equal(t, uint32(2), status.Messages)

	uids, err := c.UidSearch(goimap.NewSearchCriteria())
	assert.NoError(t, err)
	assert.Len(t, uids, 2)

	assert.NoError(t, c.Logout())
}

func TestPersistentClientAfterLogout(t *testing.T) {
	_, address, _ := internal.BuildTestIMAPServer(t)

	f := &Factory{Mailbox: "INBOX"}
	c, err := f.NewClient(&imap.ClientConfig{
		HostPort: address,
		Auth:     imap.NewNormalAuthenticator("username", "password"),
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Logout())
	<-c.LoggedOut()

	err = c.Idle(nil, nil)
	assert.Error(t, err)

	_, err = c.UidSearch(goimap.NewSearchCriteria())
	assert.Error(t, err)

	// Logout after shutdown is a no-op.
	assert.NoError(t, c.Logout())
}
