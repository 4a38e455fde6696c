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

import "github.com/CryptofBoy1/n8n-nodes-imap/flow"

const (
	ResourceMessage = "message"
	ResourceMailbox = "mailbox"

	OpGetMany            = "getMany"
	OpGet                = "get"
	OpDownloadAttachment = "downloadAttachment"
	OpMove               = "move"
	OpCopy               = "copy"
	OpDelete             = "delete"
	OpAddFlags           = "addFlags"
	OpRemoveFlags        = "removeFlags"
	OpDraft              = "draft"

	OpCreate    = "create"
	OpRename    = "rename"
	OpGetStatus = "getStatus"

	// CredentialType is the credential record the node asks the host
	// credential store for.
	CredentialType = "imap"
)

func show(param string, values ...interface{}) *flow.DisplayOptions {
	return &flow.DisplayOptions{Show: map[string][]interface{}{param: values}}
}

func showOps(resource string, ops ...interface{}) *flow.DisplayOptions {
	return &flow.DisplayOptions{Show: map[string][]interface{}{
		"resource":  {resource},
		"operation": ops,
	}}
}

// CredentialProperties is the connection part of the parameter schema,
// shared between the node and the watch trigger.
func CredentialProperties() []flow.Property {
	out := make([]flow.Property, len(credentialProps))
	copy(out, credentialProps)
	return out
}

var credentialProps = []flow.Property{
	{
		Name:        "authentication",
		DisplayName: "Authentication",
		Type:        flow.PropertyOptions,
		Default:     AuthStoredCredentials,
		Options: []flow.Option{
			{Name: "Stored Credentials", Value: AuthStoredCredentials, Description: "Use the host's credential store"},
			{Name: "Parameters", Value: AuthParameters, Description: "Connection details set on this node"},
			{Name: "Input Item Field", Value: AuthItemField, Description: "Read a credential record from a field of the input item"},
		},
	},
	{
		Name:           "credentialsField",
		DisplayName:    "Credentials Field",
		Type:           flow.PropertyString,
		Default:        "imapCredentials",
		Description:    "Field of the input item holding the credential record",
		DisplayOptions: show("authentication", AuthItemField),
	},
	{
		Name:           "host",
		DisplayName:    "Host",
		Type:           flow.PropertyString,
		Required:       true,
		Placeholder:    "imap.example.com",
		DisplayOptions: show("authentication", AuthParameters),
	},
	{
		Name:           "port",
		DisplayName:    "Port",
		Type:           flow.PropertyNumber,
		Default:        993,
		DisplayOptions: show("authentication", AuthParameters),
	},
	{
		Name:           "user",
		DisplayName:    "User",
		Type:           flow.PropertyString,
		DisplayOptions: show("authentication", AuthParameters),
	},
	{
		Name:           "password",
		DisplayName:    "Password",
		Type:           flow.PropertyString,
		DisplayOptions: show("authentication", AuthParameters),
	},
	{
		Name:           "tls",
		DisplayName:    "TLS",
		Type:           flow.PropertyBoolean,
		Default:        true,
		DisplayOptions: show("authentication", AuthParameters),
	},
	{
		Name:           "allowInsecureTls",
		DisplayName:    "Allow Insecure TLS",
		Type:           flow.PropertyBoolean,
		Default:        false,
		Description:    "Skip TLS certificate verification",
		DisplayOptions: show("authentication", AuthParameters),
	},
	{
		Name:           "authMethod",
		DisplayName:    "Auth Method",
		Type:           flow.PropertyOptions,
		Default:        AuthMethodLogin,
		DisplayOptions: show("authentication", AuthParameters),
		Options: []flow.Option{
			{Name: "Login", Value: AuthMethodLogin},
			{Name: "SASL PLAIN", Value: AuthMethodPlain},
			{Name: "OAuth Bearer", Value: AuthMethodOAuthBearer},
		},
	},
	{
		Name:        "accessToken",
		DisplayName: "Access Token",
		Type:        flow.PropertyString,
		Description: "OAuth2 access token for the oauthbearer method",
		DisplayOptions: &flow.DisplayOptions{Show: map[string][]interface{}{
			"authentication": {AuthParameters},
			"authMethod":     {AuthMethodOAuthBearer},
		}},
	},
}

// descriptor is the static parameter-schema table the host renders. One
// entry per parameter; conditional display rules carve it up per
// resource/operation.
var descriptor = &flow.Descriptor{
	Name:        "imap",
	DisplayName: "IMAP",
	Description: "Retrieve and manage email messages via IMAP",
	Group:       "input",
	Version:     1,
	Inputs:      1,
	Outputs:     1,
	Credentials: []flow.CredentialUse{
		{Name: CredentialType},
	},
	Properties: append(CredentialProperties(), operationProps...),
}

var operationProps = []flow.Property{
	{
		Name:        "resource",
		DisplayName: "Resource",
		Type:        flow.PropertyOptions,
		Default:     ResourceMessage,
		Options: []flow.Option{
			{Name: "Message", Value: ResourceMessage},
			{Name: "Mailbox", Value: ResourceMailbox},
		},
	},
	{
		Name:           "operation",
		DisplayName:    "Operation",
		Type:           flow.PropertyOptions,
		Default:        OpGetMany,
		DisplayOptions: show("resource", ResourceMessage),
		Options: []flow.Option{
			{Name: "Get Many", Value: OpGetMany, Description: "Search a mailbox and return matching messages"},
			{Name: "Get", Value: OpGet, Description: "Fetch messages by UID"},
			{Name: "Download Attachment", Value: OpDownloadAttachment, Description: "Fetch one attachment as binary data"},
			{Name: "Move", Value: OpMove, Description: "Move messages to another mailbox"},
			{Name: "Copy", Value: OpCopy, Description: "Copy messages to another mailbox"},
			{Name: "Delete", Value: OpDelete, Description: "Delete messages"},
			{Name: "Add Flags", Value: OpAddFlags},
			{Name: "Remove Flags", Value: OpRemoveFlags},
			{Name: "Create Draft", Value: OpDraft, Description: "Upload a draft message"},
		},
	},
	{
		Name:           "operation",
		DisplayName:    "Operation",
		Type:           flow.PropertyOptions,
		Default:        OpGetMany,
		DisplayOptions: show("resource", ResourceMailbox),
		Options: []flow.Option{
			{Name: "Get Many", Value: OpGetMany, Description: "List mailboxes"},
			{Name: "Create", Value: OpCreate},
			{Name: "Rename", Value: OpRename},
			{Name: "Delete", Value: OpDelete},
			{Name: "Get Status", Value: OpGetStatus, Description: "Message counts and UID state of a mailbox"},
		},
	},
	{
		Name:        "mailbox",
		DisplayName: "Mailbox",
		Type:        flow.PropertyString,
		Default:     "INBOX",
	},
	{
		Name:           "newName",
		DisplayName:    "New Name",
		Type:           flow.PropertyString,
		Required:       true,
		DisplayOptions: showOps(ResourceMailbox, OpRename),
	},
	{
		Name:           "uids",
		DisplayName:    "UIDs",
		Type:           flow.PropertyString,
		Required:       true,
		Placeholder:    "1,5:9",
		Description:    "UID set of the messages to operate on",
		DisplayOptions: showOps(ResourceMessage, OpGet, OpDownloadAttachment, OpMove, OpCopy, OpDelete, OpAddFlags, OpRemoveFlags),
	},
	{
		Name:           "destination",
		DisplayName:    "Destination Mailbox",
		Type:           flow.PropertyString,
		Required:       true,
		DisplayOptions: showOps(ResourceMessage, OpMove, OpCopy),
	},
	{
		Name:           "flags",
		DisplayName:    "Flags",
		Type:           flow.PropertyString,
		Required:       true,
		Placeholder:    "\\Seen, \\Flagged",
		Description:    "Comma-separated list of flags or keywords",
		DisplayOptions: showOps(ResourceMessage, OpAddFlags, OpRemoveFlags),
	},
	{
		Name:           "unseenOnly",
		DisplayName:    "Unseen Only",
		Type:           flow.PropertyBoolean,
		Default:        false,
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "from",
		DisplayName:    "From",
		Type:           flow.PropertyString,
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "to",
		DisplayName:    "To",
		Type:           flow.PropertyString,
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "subject",
		DisplayName:    "Subject",
		Type:           flow.PropertyString,
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "text",
		DisplayName:    "Text",
		Type:           flow.PropertyString,
		Description:    "Search message bodies for this text",
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "since",
		DisplayName:    "Since",
		Type:           flow.PropertyString,
		Placeholder:    "2023-01-31",
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "before",
		DisplayName:    "Before",
		Type:           flow.PropertyString,
		Placeholder:    "2023-01-31",
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "limit",
		DisplayName:    "Limit",
		Type:           flow.PropertyNumber,
		Default:        50,
		Description:    "Maximum number of messages to return, newest first. 0 for no limit",
		DisplayOptions: showOps(ResourceMessage, OpGetMany),
	},
	{
		Name:           "includeBody",
		DisplayName:    "Include Body",
		Type:           flow.PropertyBoolean,
		Default:        false,
		Description:    "Download and parse the message body",
		DisplayOptions: showOps(ResourceMessage, OpGetMany, OpGet),
	},
	{
		Name:           "includeAttachments",
		DisplayName:    "Include Attachments",
		Type:           flow.PropertyBoolean,
		Default:        false,
		Description:    "Attach binary data of each attachment to the item",
		DisplayOptions: showOps(ResourceMessage, OpGetMany, OpGet),
	},
	{
		Name:           "markSeen",
		DisplayName:    "Mark As Seen",
		Type:           flow.PropertyBoolean,
		Default:        false,
		Description:    "Flag returned messages \\Seen. Fetches peek by default",
		DisplayOptions: showOps(ResourceMessage, OpGetMany, OpGet),
	},
	{
		Name:           "attachmentIndex",
		DisplayName:    "Attachment Index",
		Type:           flow.PropertyNumber,
		Default:        0,
		DisplayOptions: showOps(ResourceMessage, OpDownloadAttachment),
	},
	{
		Name:           "binaryProperty",
		DisplayName:    "Binary Property",
		Type:           flow.PropertyString,
		Default:        "attachment",
		Description:    "Name of the binary property to write the attachment to",
		DisplayOptions: showOps(ResourceMessage, OpDownloadAttachment),
	},
	{
		Name:           "rawMessage",
		DisplayName:    "Raw Message",
		Type:           flow.PropertyString,
		Description:    "Complete RFC 822 message. Leave empty to compose from the fields below",
		DisplayOptions: showOps(ResourceMessage, OpDraft),
	},
	{
		Name:           "draftTo",
		DisplayName:    "To",
		Type:           flow.PropertyString,
		DisplayOptions: showOps(ResourceMessage, OpDraft),
	},
	{
		Name:           "draftSubject",
		DisplayName:    "Subject",
		Type:           flow.PropertyString,
		DisplayOptions: showOps(ResourceMessage, OpDraft),
	},
	{
		Name:           "draftText",
		DisplayName:    "Text",
		Type:           flow.PropertyString,
		DisplayOptions: showOps(ResourceMessage, OpDraft),
	},
}
