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

package flow

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Execution is the per-run view the host hands a node: the input items,
// the node's resolved parameters and the credential store.
type Execution interface {
	Items() []Item

	// Parameter returns the value of a node parameter for the given input
	// item. The second return is false if the parameter is neither set nor
	// has a schema default.
	Parameter(name string, item int) (interface{}, bool)

	// Credentials resolves a credential record of the given type from the
	// host's credential store.
	Credentials(ctx context.Context, typ string) (map[string]interface{}, error)

	Logger() *log.Entry
}

// Node is the host's execution entry point for a regular node.
type Node interface {
	Descriptor() *Descriptor
	Execute(ctx context.Context, run Execution) ([]Item, error)
}

// CredentialTester is implemented by nodes that support the host's
// credential test hook.
type CredentialTester interface {
	TestCredentials(ctx context.Context, creds map[string]interface{}) error
}

// TriggerNode is the long-lived variant: it watches an external source and
// emits item batches until the context is cancelled.
type TriggerNode interface {
	Descriptor() *Descriptor
	Watch(ctx context.Context, run Execution, emit func([]Item)) error
}
