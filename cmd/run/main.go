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

package run

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/config"
	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/CryptofBoy1/n8n-nodes-imap/node"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Execute the node once",
		Flags:  cfg.Parameters(),
		Action: func(context *cli.Context) error { return run(context, cfg) },
	})
	return app
}

func run(cctx *cli.Context, cfg *config.CliConfig) error {
	cfg.SetupLogging()

	creds, mailbox, err := cfg.IMAP.BuildCredentials()
	if err != nil {
		return err
	}

	params, err := cfg.ParseParams()
	if err != nil {
		return err
	}

	// The URL path names the mailbox unless --params says otherwise.
	if _, ok := params["mailbox"]; !ok && mailbox != "" {
		params["mailbox"] = mailbox
	}

	items, err := readItems(os.Stdin)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"url":       cfg.IMAP.URL,
		"username":  cfg.IMAP.Username,
		"items":     len(items),
		"resource":  params["resource"],
		"operation": params["operation"],
	}).Info("run_starting")

	n := node.New(nil)
	store := flow.MemoryCredentials{node.CredentialType: config.CredentialsMap(creds)}

	out, err := n.Execute(cctx.Context, flow.NewExecution(n.Descriptor(), params, items, store))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readItems parses the input item list from stdin. A terminal or empty
// stdin means no input items.
func readItems(r *os.File) ([]flow.Item, error) {
	if info, err := r.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		return nil, nil
	}

	raw, err := ioutil.ReadAll(io.LimitReader(r, 64<<20))
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var items []flow.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("malformed input items: %w", err)
	}
	return items, nil
}
