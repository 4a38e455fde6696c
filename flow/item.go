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

// Item is one record of the host's item-list format. Items flow between
// workflow nodes as an ordered slice. JSON holds the structured payload,
// Binary holds named attachments.
type Item struct {
	JSON   map[string]interface{} `json:"json"`
	Binary map[string]*Attachment `json:"binary,omitempty"`
}

// Attachment is a named binary payload attached to an item. Data is
// base64-encoded on the wire by encoding/json.
type Attachment struct {
	Data     []byte `json:"data"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

func NewItem() Item {
	return Item{JSON: map[string]interface{}{}}
}

// Field returns a named field of the JSON payload.
func (i Item) Field(name string) (interface{}, bool) {
	if i.JSON == nil {
		return nil, false
	}
	v, ok := i.JSON[name]
	return v, ok
}

// SetBinary attaches a binary payload under the given property name.
func (i *Item) SetBinary(name string, att *Attachment) {
	if i.Binary == nil {
		i.Binary = map[string]*Attachment{}
	}
	i.Binary[name] = att
}
