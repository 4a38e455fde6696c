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

type PropertyType string

const (
	PropertyString  PropertyType = "string"
	PropertyNumber  PropertyType = "number"
	PropertyBoolean PropertyType = "boolean"
	PropertyOptions PropertyType = "options"
	PropertyJSON    PropertyType = "json"
)

// Option is one selectable value of an options property.
type Option struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// DisplayOptions restricts when the host shows a property. The property is
// shown only if, for every listed parameter, its current value is one of
// the listed values.
type DisplayOptions struct {
	Show map[string][]interface{} `json:"show,omitempty"`
}

// Property is one entry of the node's parameter schema. The host renders
// the table and hands resolved values back through Execution.Parameter.
type Property struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"displayName"`
	Type           PropertyType    `json:"type"`
	Default        interface{}     `json:"default,omitempty"`
	Required       bool            `json:"required,omitempty"`
	Description    string          `json:"description,omitempty"`
	Placeholder    string          `json:"placeholder,omitempty"`
	Options        []Option        `json:"options,omitempty"`
	DisplayOptions *DisplayOptions `json:"displayOptions,omitempty"`
}

// CredentialUse declares a credential type the node consumes from the
// host's credential store.
type CredentialUse struct {
	Name     string `json:"name"`
	Required bool   `json:"required,omitempty"`
}

// Descriptor is what the host registers for a node type.
type Descriptor struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description,omitempty"`
	Group       string          `json:"group,omitempty"`
	Version     int             `json:"version"`
	Inputs      int             `json:"inputs"`
	Outputs     int             `json:"outputs"`
	Credentials []CredentialUse `json:"credentials,omitempty"`
	Properties  []Property      `json:"properties"`
}

// Property returns the schema entry with the given name.
func (d *Descriptor) Property(name string) (*Property, bool) {
	for i := range d.Properties {
		if d.Properties[i].Name == name {
			return &d.Properties[i], true
		}
	}
	return nil, false
}

// Validate checks the descriptor for the mistakes the host rejects at
// registration time: duplicate or empty property names, options properties
// without options, and defaults that aren't among the declared options.
// Properties may share a name only if all of them are conditionally
// displayed; the host guarantees at most one is visible at a time.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}

	seen := map[string]bool{}
	for _, p := range d.Properties {
		if p.Name == "" {
			return fmt.Errorf("node %v: property with empty name", d.Name)
		}

		conditional := p.DisplayOptions != nil && len(p.DisplayOptions.Show) > 0
		if prevConditional, ok := seen[p.Name]; ok && (!conditional || !prevConditional) {
			return fmt.Errorf("node %v: duplicate property %v", d.Name, p.Name)
		}
		seen[p.Name] = conditional

		if p.Type == PropertyOptions {
			if len(p.Options) == 0 {
				return fmt.Errorf("node %v: options property %v has no options", d.Name, p.Name)
			}

			if p.Default != nil {
				def, ok := p.Default.(string)
				if !ok || !hasOption(p.Options, def) {
					return fmt.Errorf("node %v: property %v: default %v is not an option", d.Name, p.Name, p.Default)
				}
			}
		}
	}

	return nil
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
