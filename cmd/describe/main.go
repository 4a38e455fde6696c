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

package describe

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/CryptofBoy1/n8n-nodes-imap/node"
	"github.com/CryptofBoy1/n8n-nodes-imap/trigger"
)

func RegisterCommand(app *cli.App) *cli.App {
	var showTrigger bool
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "describe",
		Usage: "Print the node descriptor the host registers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "trigger",
				Usage:       "describe the watch trigger instead of the node",
				Destination: &showTrigger,
			},
		},
		Action: func(_ *cli.Context) error { return describe(showTrigger) },
	})
	return app
}

func describe(showTrigger bool) error {
	var desc *flow.Descriptor
	if showTrigger {
		desc = trigger.New(nil).Descriptor()
	} else {
		desc = node.New(nil).Descriptor()
	}

	if err := desc.Validate(); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(desc)
}
