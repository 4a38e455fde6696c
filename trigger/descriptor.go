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

package trigger

import (
	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/CryptofBoy1/n8n-nodes-imap/node"
)

var descriptor = &flow.Descriptor{
	Name:        "imapTrigger",
	DisplayName: "IMAP Trigger",
	Description: "Emits new email messages as they arrive in a mailbox",
	Group:       "trigger",
	Version:     1,
	Outputs:     1,
	Credentials: []flow.CredentialUse{
		{Name: node.CredentialType},
	},
	Properties: append(node.CredentialProperties(),
		flow.Property{
			Name:        "mailbox",
			DisplayName: "Mailbox",
			Type:        flow.PropertyString,
			Default:     "INBOX",
		},
		flow.Property{
			Name:        "pollInterval",
			DisplayName: "Poll Interval",
			Type:        flow.PropertyNumber,
			Default:     60,
			Description: "Seconds between polls when the server has no IDLE support",
		},
		flow.Property{
			Name:        "includeBody",
			DisplayName: "Include Body",
			Type:        flow.PropertyBoolean,
			Default:     false,
			Description: "Download and parse the body of each new message",
		}),
}
