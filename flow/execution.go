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
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CredentialStore resolves credential records by type.
type CredentialStore interface {
	Get(ctx context.Context, typ string) (map[string]interface{}, error)
}

// MemoryCredentials is a CredentialStore backed by a map. Used by the CLI
// and tests; the host supplies its own store in production.
type MemoryCredentials map[string]map[string]interface{}

func (m MemoryCredentials) Get(_ context.Context, typ string) (map[string]interface{}, error) {
	creds, ok := m[typ]
	if !ok {
		return nil, fmt.Errorf("no credentials of type %q", typ)
	}
	return creds, nil
}

type execution struct {
	desc   *Descriptor
	params map[string]interface{}
	items  []Item
	creds  CredentialStore
	logger *log.Entry
}

// NewExecution builds the reference Execution implementation: parameters
// fall back to schema defaults, credentials come from the given store. An
// execution with no input items still runs the node once, so Items() always
// yields at least one (empty) item.
func NewExecution(desc *Descriptor, params map[string]interface{}, items []Item, creds CredentialStore) Execution {
	if len(items) == 0 {
		items = []Item{NewItem()}
	}
	if params == nil {
		params = map[string]interface{}{}
	}

	return &execution{
		desc:   desc,
		params: params,
		items:  items,
		creds:  creds,
		logger: log.WithField("node", desc.Name),
	}
}

func (e *execution) Items() []Item {
	return e.items
}

func (e *execution) Parameter(name string, _ int) (interface{}, bool) {
	if v, ok := e.params[name]; ok {
		return v, true
	}

	p, ok := e.desc.Property(name)
	if !ok || p.Default == nil {
		return nil, false
	}
	return p.Default, true
}

func (e *execution) Credentials(ctx context.Context, typ string) (map[string]interface{}, error) {
	if e.creds == nil {
		return nil, fmt.Errorf("no credential store attached")
	}
	return e.creds.Get(ctx, typ)
}

func (e *execution) Logger() *log.Entry {
	return e.logger
}
