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
	"strings"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
)

// nodeError wraps a failure in the host-facing error shape. Lines the
// wrapped library swallowed into its logger are drained from the client and
// merged into the description, so protocol-level detail isn't lost.
func (n *IMAPNode) nodeError(c imap2.Client, item int, msg string, cause error) *flow.NodeError {
	var desc []string
	if cause != nil {
		desc = append(desc, cause.Error())
	}
	if c != nil {
		desc = append(desc, c.Errors()...)
	}

	return &flow.NodeError{
		Node:        descriptor.Name,
		Message:     msg,
		Description: strings.Join(desc, "\n"),
		ItemIndex:   item,
		Cause:       cause,
	}
}
