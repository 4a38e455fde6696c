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

import "sync"

var (
	mu       sync.RWMutex
	registry = map[string]func() Node{}
)

// Register makes a node type available to the host under its descriptor
// name. Later registrations replace earlier ones.
func Register(nodeType string, factory func() Node) {
	mu.Lock()
	defer mu.Unlock()
	registry[nodeType] = factory
}

// Lookup instantiates a registered node type.
func Lookup(nodeType string) (Node, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[nodeType]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Types returns the registered node type names.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	var types []string
	for t := range registry {
		types = append(types, t)
	}
	return types
}
