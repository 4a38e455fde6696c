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

import "fmt"

// NodeError is the host-facing error shape: a short message the host shows
// inline and a longer description with whatever detail was recovered from
// the underlying library. ItemIndex is -1 when the failure isn't tied to a
// specific input item.
type NodeError struct {
	Node        string `json:"node"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	ItemIndex   int    `json:"itemIndex"`

	Cause error `json:"-"`
}

func (e *NodeError) Error() string {
	if e.ItemIndex >= 0 {
		return fmt.Sprintf("%v: %v (item %v)", e.Node, e.Message, e.ItemIndex)
	}
	return fmt.Sprintf("%v: %v", e.Node, e.Message)
}

func (e *NodeError) Unwrap() error {
	return e.Cause
}
