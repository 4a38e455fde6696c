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
	"context"
	"fmt"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/CryptofBoy1/n8n-nodes-imap/imap/client"
	log "github.com/sirupsen/logrus"
)

// IMAPNode translates host parameters into calls against the wrapped IMAP
// client and shapes the responses into the host's item-list format.
type IMAPNode struct {
	factory imap2.ClientFactory
}

func New(factory imap2.ClientFactory) *IMAPNode {
	if factory == nil {
		factory = &client.Factory{}
	}
	return &IMAPNode{factory: factory}
}

func init() {
	flow.Register("imap", func() flow.Node { return New(nil) })
}

func (n *IMAPNode) Descriptor() *flow.Descriptor {
	return descriptor
}

// Execute opens one connection for the whole run, then dispatches each
// input item sequentially on its resource/operation parameters. The
// connection is closed whether the run succeeds or not.
func (n *IMAPNode) Execute(ctx context.Context, run flow.Execution) ([]flow.Item, error) {
	creds, err := ResolveCredentials(ctx, run)
	if err != nil {
		// Only the itemField source ties the failure to an input item.
		idx := -1
		if flow.StringParam(run, "authentication", 0) == AuthItemField {
			idx = 0
		}
		return nil, n.nodeError(nil, idx, "credential resolution failed", err)
	}

	c, err := n.factory.NewClient(creds.ClientConfig())
	if err != nil {
		return nil, n.nodeError(nil, -1, fmt.Sprintf("connection to %v failed", creds.Host), err)
	}
	defer func() { _ = c.Logout() }()

	run.Logger().WithField("host", creds.Host).Trace("node_connected")

	var out []flow.Item
	for i := range run.Items() {
		if err := ctx.Err(); err != nil {
			return nil, n.nodeError(c, i, "execution cancelled", err)
		}

		items, err := n.executeItem(c, run, i)
		if err != nil {
			return nil, err
		}

		out = append(out, items...)
	}

	return out, nil
}

func (n *IMAPNode) executeItem(c imap2.Client, run flow.Execution, item int) ([]flow.Item, error) {
	resource := flow.StringParam(run, "resource", item)
	operation := flow.StringParam(run, "operation", item)

	run.Logger().WithFields(log.Fields{
		"item":      item,
		"resource":  resource,
		"operation": operation,
	}).Trace("node_dispatch")

	switch resource {
	case ResourceMailbox:
		return n.executeMailbox(c, run, item, operation)
	case ResourceMessage:
		return n.executeMessage(c, run, item, operation)
	default:
		return nil, n.nodeError(c, item, fmt.Sprintf("unknown resource %q", resource), nil)
	}
}

// TestCredentials is the host's credential test hook: dial, authenticate,
// log out.
func (n *IMAPNode) TestCredentials(ctx context.Context, credMap map[string]interface{}) error {
	creds, err := credentialsFromMap(credMap)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := n.factory.NewClient(creds.ClientConfig())
	if err != nil {
		return fmt.Errorf("connection to %v failed: %w", creds.Host, err)
	}

	return c.Logout()
}
